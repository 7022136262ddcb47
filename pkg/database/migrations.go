package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fletes/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(context.Context, *mongo.Database) error
	Down        func(context.Context, *mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
	log        *logger.Logger
}

func NewMigrator(db *mongo.Database, log *logger.Logger) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
		log:        log,
	}
}

func (m *Migrator) Up(ctx context.Context) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}

		m.log.WithField("version", migration.Version).Infof("Running migration: %s", migration.Description)

		if err := migration.Up(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
		if err := m.updateVersion(ctx, migration.Version); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) Down(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if migration.Version > currentVersion || migration.Version <= targetVersion {
			continue
		}

		m.log.WithField("version", migration.Version).Infof("Reverting migration: %s", migration.Description)

		if err := migration.Down(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d rollback failed: %w", migration.Version, err)
		}

		previousVersion := targetVersion
		if i > 0 {
			previousVersion = m.migrations[i-1].Version
		}
		if err := m.updateVersion(ctx, previousVersion); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion(ctx context.Context) (int, error) {
	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection(CollectionMigrations).FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(ctx context.Context, version int) error {
	_, err := m.db.Collection(CollectionMigrations).ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updatedAt", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)
	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create people indexes (clientes, empleados, motoristas)",
			Up:          createPeopleIndexes,
			Down: func(ctx context.Context, db *mongo.Database) error {
				return dropIndexes(ctx, db, CollectionClientes, CollectionEmpleados, CollectionMotoristas)
			},
		},
		{
			Version:     2,
			Description: "Create camiones indexes",
			Up:          createCamionesIndexes,
			Down: func(ctx context.Context, db *mongo.Database) error {
				return dropIndexes(ctx, db, CollectionCamiones)
			},
		},
		{
			Version:     3,
			Description: "Create cotizaciones indexes",
			Up:          createCotizacionesIndexes,
			Down: func(ctx context.Context, db *mongo.Database) error {
				return dropIndexes(ctx, db, CollectionCotizaciones)
			},
		},
		{
			Version:     4,
			Description: "Create viajes and audit_logs indexes",
			Up:          createViajesIndexes,
			Down: func(ctx context.Context, db *mongo.Database) error {
				return dropIndexes(ctx, db, CollectionViajes, CollectionAuditLogs)
			},
		},
	}
}

// optionalUnique indexes a field that must be unique only when present.
func optionalUnique(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: field, Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{field: bson.M{"$type": "string", "$gt": ""}}),
	}
}

func unique(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

func byField(field string, order int) mongo.IndexModel {
	return mongo.IndexModel{Keys: bson.D{{Key: field, Value: order}}}
}

func createPeopleIndexes(ctx context.Context, db *mongo.Database) error {
	sets := map[string][]mongo.IndexModel{
		CollectionClientes: {
			unique("email"),
			optionalUnique("rut"),
			byField("estado", 1),
			byField("createdAt", -1),
		},
		CollectionEmpleados: {
			unique("email"),
			optionalUnique("rut"),
			byField("rol", 1),
		},
		CollectionMotoristas: {
			unique("email"),
			optionalUnique("rut"),
			byField("estado", 1),
		},
	}

	for name, indexes := range sets {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func createCamionesIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		unique("patente"),
		byField("estado", 1),
		byField("tipo", 1),
		byField("proximaMantencion", 1),
	}

	_, err := db.Collection(CollectionCamiones).Indexes().CreateMany(ctx, indexes)
	return err
}

func createCotizacionesIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		unique("folio"),
		byField("clientId", 1),
		{
			Keys: bson.D{{Key: "estado", Value: 1}, {Key: "fechaVencimiento", Value: 1}},
		},
		byField("createdAt", -1),
	}

	_, err := db.Collection(CollectionCotizaciones).Indexes().CreateMany(ctx, indexes)
	return err
}

func createViajesIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		unique("codigo"),
		{
			Keys: bson.D{{Key: "estado", Value: 1}, {Key: "fechaSalida", Value: 1}},
		},
		byField("truckId", 1),
		byField("conductorId", 1),
		byField("clientId", 1),
		byField("cotizacionId", 1),
	}
	if _, err := db.Collection(CollectionViajes).Indexes().CreateMany(ctx, indexes); err != nil {
		return err
	}

	auditIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "entity", Value: 1}, {Key: "entityId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}
	_, err := db.Collection(CollectionAuditLogs).Indexes().CreateMany(ctx, auditIndexes)
	return err
}

func dropIndexes(ctx context.Context, db *mongo.Database, names ...string) error {
	for _, name := range names {
		if _, err := db.Collection(name).Indexes().DropAll(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
