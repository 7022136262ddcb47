package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/internal/utils"
	"fletes/pkg/events"
)

// applyUpdates mimics a $set by round-tripping the document through BSON.
func applyUpdates[T any](doc *T, updates interfaces.Updates) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		panic(err)
	}
	m := bson.M{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		panic(err)
	}
	for k, v := range updates {
		m[k] = v
	}
	raw, err = bson.Marshal(m)
	if err != nil {
		panic(err)
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	*doc = out
}

func page[T any](items []*T, params *utils.PaginationParams) ([]*T, int64) {
	return items, int64(len(items))
}

type fakeClienteRepo struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Cliente
}

func newFakeClienteRepo(clientes ...*models.Cliente) *fakeClienteRepo {
	r := &fakeClienteRepo{items: map[primitive.ObjectID]*models.Cliente{}}
	for _, c := range clientes {
		_ = r.Create(context.Background(), c)
	}
	return r
}

func (r *fakeClienteRepo) Create(_ context.Context, c *models.Cliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *fakeClienteRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, utils.NotFound("Cliente")
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClienteRepo) GetByEmail(_ context.Context, email string) (*models.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, utils.NotFound("Cliente")
}

func (r *fakeClienteRepo) Update(_ context.Context, id primitive.ObjectID, updates interfaces.Updates) (*models.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, utils.NotFound("Cliente")
	}
	applyUpdates(c, updates)
	cp := *c
	return &cp, nil
}

func (r *fakeClienteRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return utils.NotFound("Cliente")
	}
	delete(r.items, id)
	return nil
}

func (r *fakeClienteRepo) List(_ context.Context, _ interfaces.ClienteFilter, params *utils.PaginationParams) ([]*models.Cliente, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Cliente
	for _, c := range r.items {
		out = append(out, c)
	}
	items, total := page(out, params)
	return items, total, nil
}

type fakeEmpleadoRepo struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Empleado
}

func newFakeEmpleadoRepo(empleados ...*models.Empleado) *fakeEmpleadoRepo {
	r := &fakeEmpleadoRepo{items: map[primitive.ObjectID]*models.Empleado{}}
	for _, e := range empleados {
		_ = r.Create(context.Background(), e)
	}
	return r
}

func (r *fakeEmpleadoRepo) Create(_ context.Context, e *models.Empleado) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	cp := *e
	r.items[e.ID] = &cp
	return nil
}

func (r *fakeEmpleadoRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Empleado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, utils.NotFound("Empleado")
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEmpleadoRepo) GetByEmail(_ context.Context, email string) (*models.Empleado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, utils.NotFound("Empleado")
}

func (r *fakeEmpleadoRepo) Update(_ context.Context, id primitive.ObjectID, updates interfaces.Updates) (*models.Empleado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, utils.NotFound("Empleado")
	}
	applyUpdates(e, updates)
	cp := *e
	return &cp, nil
}

func (r *fakeEmpleadoRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return utils.NotFound("Empleado")
	}
	delete(r.items, id)
	return nil
}

func (r *fakeEmpleadoRepo) List(_ context.Context, _ interfaces.EmpleadoFilter, params *utils.PaginationParams) ([]*models.Empleado, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Empleado
	for _, e := range r.items {
		out = append(out, e)
	}
	items, total := page(out, params)
	return items, total, nil
}

func (r *fakeEmpleadoRepo) CountByRol(_ context.Context, rol models.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.items {
		if e.Rol == rol {
			n++
		}
	}
	return n, nil
}

type fakeMotoristaRepo struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Motorista
}

func newFakeMotoristaRepo(motoristas ...*models.Motorista) *fakeMotoristaRepo {
	r := &fakeMotoristaRepo{items: map[primitive.ObjectID]*models.Motorista{}}
	for _, m := range motoristas {
		_ = r.Create(context.Background(), m)
	}
	return r
}

func (r *fakeMotoristaRepo) Create(_ context.Context, m *models.Motorista) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	cp := *m
	r.items[m.ID] = &cp
	return nil
}

func (r *fakeMotoristaRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Motorista, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return nil, utils.NotFound("Motorista")
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMotoristaRepo) GetByEmail(_ context.Context, email string) (*models.Motorista, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.items {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, utils.NotFound("Motorista")
}

func (r *fakeMotoristaRepo) Update(_ context.Context, id primitive.ObjectID, updates interfaces.Updates) (*models.Motorista, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return nil, utils.NotFound("Motorista")
	}
	applyUpdates(m, updates)
	cp := *m
	return &cp, nil
}

func (r *fakeMotoristaRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return utils.NotFound("Motorista")
	}
	delete(r.items, id)
	return nil
}

func (r *fakeMotoristaRepo) List(_ context.Context, filter interfaces.MotoristaFilter, params *utils.PaginationParams) ([]*models.Motorista, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Motorista
	for _, m := range r.items {
		if filter.Estado == "" || string(m.Estado) == filter.Estado {
			out = append(out, m)
		}
	}
	items, total := page(out, params)
	return items, total, nil
}

func (r *fakeMotoristaRepo) SetEstado(_ context.Context, id primitive.ObjectID, to models.EstadoMotorista, from ...models.EstadoMotorista) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return utils.NotFound("Motorista")
	}
	if len(from) > 0 && !containsEstado(from, m.Estado) {
		return utils.Conflict()
	}
	m.Estado = to
	return nil
}

func (r *fakeMotoristaRepo) UpdateUbicacion(_ context.Context, id primitive.ObjectID, u models.Ubicacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return utils.NotFound("Motorista")
	}
	m.Ubicacion = &u
	return nil
}

func (r *fakeMotoristaRepo) CountByEstado(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int64{}
	for _, m := range r.items {
		out[string(m.Estado)]++
	}
	return out, nil
}

func (r *fakeMotoristaRepo) estado(id primitive.ObjectID) models.EstadoMotorista {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Estado
}

type fakeCamionRepo struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Camion
}

func newFakeCamionRepo(camiones ...*models.Camion) *fakeCamionRepo {
	r := &fakeCamionRepo{items: map[primitive.ObjectID]*models.Camion{}}
	for _, c := range camiones {
		_ = r.Create(context.Background(), c)
	}
	return r
}

func (r *fakeCamionRepo) Create(_ context.Context, c *models.Camion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *fakeCamionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Camion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, utils.NotFound("Camión")
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCamionRepo) Update(_ context.Context, id primitive.ObjectID, updates interfaces.Updates) (*models.Camion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, utils.NotFound("Camión")
	}
	applyUpdates(c, updates)
	cp := *c
	return &cp, nil
}

func (r *fakeCamionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return utils.NotFound("Camión")
	}
	delete(r.items, id)
	return nil
}

func (r *fakeCamionRepo) List(_ context.Context, filter interfaces.CamionFilter, params *utils.PaginationParams) ([]*models.Camion, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Camion
	for _, c := range r.items {
		if filter.Estado == "" || string(c.Estado) == filter.Estado {
			out = append(out, c)
		}
	}
	items, total := page(out, params)
	return items, total, nil
}

func (r *fakeCamionRepo) SetEstado(_ context.Context, id primitive.ObjectID, to models.EstadoCamion, from ...models.EstadoCamion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return utils.NotFound("Camión")
	}
	if len(from) > 0 && !containsEstado(from, c.Estado) {
		return utils.Conflict()
	}
	c.Estado = to
	return nil
}

func (r *fakeCamionRepo) AddFoto(_ context.Context, id primitive.ObjectID, url string) (*models.Camion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, utils.NotFound("Camión")
	}
	c.Fotos = append(c.Fotos, url)
	cp := *c
	return &cp, nil
}

func (r *fakeCamionRepo) DueForMaintenance(_ context.Context, now time.Time) ([]*models.Camion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Camion
	for _, c := range r.items {
		if c.Estado == models.CamionDisponible && c.ProximaMantencion != nil && !c.ProximaMantencion.After(now) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCamionRepo) CountByEstado(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int64{}
	for _, c := range r.items {
		out[string(c.Estado)]++
	}
	return out, nil
}

func (r *fakeCamionRepo) estado(id primitive.ObjectID) models.EstadoCamion {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Estado
}

type fakeCotizacionRepo struct {
	mu      sync.Mutex
	items   map[primitive.ObjectID]*models.Cotizacion
	clients *fakeClienteRepo
}

func newFakeCotizacionRepo(clients *fakeClienteRepo) *fakeCotizacionRepo {
	return &fakeCotizacionRepo{items: map[primitive.ObjectID]*models.Cotizacion{}, clients: clients}
}

func (r *fakeCotizacionRepo) Create(_ context.Context, c *models.Cotizacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	cp := *c
	cp.Cliente = nil
	r.items[c.ID] = &cp
	return nil
}

func (r *fakeCotizacionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Cotizacion, error) {
	r.mu.Lock()
	c, ok := r.items[id]
	if !ok {
		r.mu.Unlock()
		return nil, utils.NotFound("Cotización")
	}
	cp := *c
	r.mu.Unlock()

	if r.clients != nil {
		if cl, err := r.clients.GetByID(ctx, cp.ClientID); err == nil {
			cp.Cliente = &models.ClienteResumen{ID: cl.ID, Nombre: cl.Nombre, Rut: cl.Rut, Email: cl.Email, Telefono: cl.Telefono, Empresa: cl.Empresa}
		}
	}
	return &cp, nil
}

func (r *fakeCotizacionRepo) Save(_ context.Context, c *models.Cotizacion, expected models.EstadoCotizacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[c.ID]
	if !ok {
		return utils.NotFound("Cotización")
	}
	if cur.Estado != expected {
		return utils.Conflict()
	}
	cp := *c
	cp.Cliente = nil
	r.items[c.ID] = &cp
	return nil
}

func (r *fakeCotizacionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return utils.NotFound("Cotización")
	}
	delete(r.items, id)
	return nil
}

func (r *fakeCotizacionRepo) List(_ context.Context, filter interfaces.CotizacionFilter, params *utils.PaginationParams) ([]*models.Cotizacion, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Cotizacion
	for _, c := range r.items {
		if filter.Estado != "" && string(c.Estado) != filter.Estado {
			continue
		}
		if filter.ClientID != nil && c.ClientID != *filter.ClientID {
			continue
		}
		out = append(out, c)
	}
	items, total := page(out, params)
	return items, total, nil
}

func (r *fakeCotizacionRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.EstadoCotizacion, updates interfaces.Updates) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return utils.NotFound("Cotización")
	}
	if c.Estado != from {
		return utils.Conflict()
	}
	set := interfaces.Updates{"estado": to}
	for k, v := range updates {
		set[k] = v
	}
	applyUpdates(c, set)
	return nil
}

func (r *fakeCotizacionRepo) LinkViaje(_ context.Context, id primitive.ObjectID, viajeID *primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return utils.NotFound("Cotización")
	}
	if c.Estado != models.CotizacionAceptada || (viajeID != nil && c.ViajeID != nil) {
		return utils.Conflict()
	}
	c.ViajeID = viajeID
	return nil
}

func (r *fakeCotizacionRepo) Expirable(_ context.Context, now time.Time) ([]*models.Cotizacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Cotizacion
	for _, c := range r.items {
		if c.Vencida(now) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCotizacionRepo) CountByEstado(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int64{}
	for _, c := range r.items {
		out[string(c.Estado)]++
	}
	return out, nil
}

func (r *fakeCotizacionRepo) get(id primitive.ObjectID) models.Cotizacion {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.items[id]
}

type fakeViajeRepo struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Viaje
}

func newFakeViajeRepo() *fakeViajeRepo {
	return &fakeViajeRepo{items: map[primitive.ObjectID]*models.Viaje{}}
}

func (r *fakeViajeRepo) Create(_ context.Context, v *models.Viaje) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	cp := *v
	cp.StripPopulated()
	r.items[v.ID] = &cp
	return nil
}

func (r *fakeViajeRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Viaje, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[id]
	if !ok {
		return nil, utils.NotFound("Viaje")
	}
	cp := *v
	return &cp, nil
}

func (r *fakeViajeRepo) Save(_ context.Context, v *models.Viaje, expected models.EstadoViaje) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[v.ID]
	if !ok {
		return utils.NotFound("Viaje")
	}
	if cur.Estado != expected {
		return utils.Conflict()
	}
	cp := *v
	cp.StripPopulated()
	r.items[v.ID] = &cp
	return nil
}

func (r *fakeViajeRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return utils.NotFound("Viaje")
	}
	delete(r.items, id)
	return nil
}

func (r *fakeViajeRepo) List(_ context.Context, filter interfaces.ViajeFilter, params *utils.PaginationParams) ([]*models.Viaje, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Viaje
	for _, v := range r.items {
		if filter.Estado != "" && string(v.Estado) != filter.Estado {
			continue
		}
		if filter.ConductorID != nil && v.ConductorID != *filter.ConductorID {
			continue
		}
		if filter.ClientID != nil && v.ClientID != *filter.ClientID {
			continue
		}
		if filter.TruckID != nil && v.TruckID != *filter.TruckID {
			continue
		}
		out = append(out, v)
	}
	items, total := page(out, params)
	return items, total, nil
}

func (r *fakeViajeRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.EstadoViaje, updates interfaces.Updates) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[id]
	if !ok {
		return utils.NotFound("Viaje")
	}
	if v.Estado != from {
		return utils.Conflict()
	}
	set := interfaces.Updates{"estado": to}
	for k, val := range updates {
		set[k] = val
	}
	applyUpdates(v, set)
	return nil
}

func (r *fakeViajeRepo) UpdatePosition(_ context.Context, id primitive.ObjectID, u models.Ubicacion, progreso int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[id]
	if !ok {
		return utils.NotFound("Viaje")
	}
	if v.Estado != models.ViajeEnCurso {
		return utils.Conflict()
	}
	v.UbicacionActual = &u
	v.Progreso = progreso
	return nil
}

func (r *fakeViajeRepo) SetProgreso(_ context.Context, id primitive.ObjectID, progreso int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.items[id]; ok && v.Estado == models.ViajeEnCurso && v.Progreso < progreso {
		v.Progreso = progreso
	}
	return nil
}

func (r *fakeViajeRepo) hasActive(match func(*models.Viaje) bool, exclude primitive.ObjectID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, v := range r.items {
		if id != exclude && v.Estado.Activo() && match(v) {
			return true
		}
	}
	return false
}

func (r *fakeViajeRepo) HasActiveForTruck(_ context.Context, truckID, exclude primitive.ObjectID) (bool, error) {
	return r.hasActive(func(v *models.Viaje) bool { return v.TruckID == truckID }, exclude), nil
}

func (r *fakeViajeRepo) HasActiveForConductor(_ context.Context, conductorID, exclude primitive.ObjectID) (bool, error) {
	return r.hasActive(func(v *models.Viaje) bool { return v.ConductorID == conductorID }, exclude), nil
}

func (r *fakeViajeRepo) DueToStart(_ context.Context, now time.Time) ([]*models.Viaje, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Viaje
	for _, v := range r.items {
		if v.Estado == models.ViajeProgramado && !v.FechaSalida.After(now) {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeViajeRepo) StaleInProgress(_ context.Context, cutoff time.Time) ([]*models.Viaje, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Viaje
	for _, v := range r.items {
		if v.Estado == models.ViajeEnCurso && (v.UbicacionActual == nil || v.UbicacionActual.ActualizadoEn.Before(cutoff)) {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeViajeRepo) Activos(_ context.Context) ([]*models.Viaje, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Viaje
	for _, v := range r.items {
		if v.Estado.Activo() {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeViajeRepo) CountByEstado(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int64{}
	for _, v := range r.items {
		out[string(v.Estado)]++
	}
	return out, nil
}

type fakeAuditRepo struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, l *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, l)
	return nil
}

func (r *fakeAuditRepo) ListByEntity(_ context.Context, entity string, id primitive.ObjectID, _ *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, l := range r.logs {
		if l.Entity == entity && l.EntityID == id {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAuditRepo) transitions(entity string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, l := range r.logs {
		if l.Entity == entity && l.Action == models.AuditActionTransition {
			out = append(out, l.From+"->"+l.To)
		}
	}
	return out
}

type fakeSequencer struct {
	mu sync.Mutex
	n  int
}

func (s *fakeSequencer) Next(_ context.Context, prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-20260101-%04d", prefix, s.n), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type broadcast struct {
	room    string
	msgType string
	data    interface{}
}

type recordingHub struct {
	mu   sync.Mutex
	sent []broadcast
}

func (h *recordingHub) Broadcast(room, msgType string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, broadcast{room: room, msgType: msgType, data: data})
}

func (h *recordingHub) rooms(msgType string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, b := range h.sent {
		if b.msgType == msgType {
			out = append(out, b.room)
		}
	}
	return out
}

func containsEstado[S comparable](list []S, s S) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
