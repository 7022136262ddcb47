package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fletes/internal/config"
	"fletes/internal/models"
	"fletes/internal/validators"
	"fletes/pkg/cache"
	"fletes/pkg/logger"
)

func newAutoUpdate(t *testing.T, f *fixture, c CacheService, autoIniciar bool) *autoUpdateService {
	t.Helper()
	svc := NewAutoUpdateService(f.cotizacionSv, f.viajeSvc, f.camiones, f.audit, c, &config.SchedulerConfig{
		Enabled:           true,
		Interval:          time.Minute,
		LockTTL:           time.Minute,
		AutoIniciarViajes: autoIniciar,
		GPSStaleAfter:     10 * time.Minute,
	}, logger.Discard()).(*autoUpdateService)
	svc.now = f.clock
	return svc
}

func TestAutoUpdateTick(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.nuevaCotizacion(t)
	_, err := f.cotizacionSv.CambiarEstado(ctx, c.ID, &validators.EstadoCotizacionRequest{Estado: "enviada"}, f.staff)
	require.NoError(t, err)

	v, err := f.viajeDirecto(1000)
	require.NoError(t, err)

	mantencion := f.now.AddDate(0, 0, 3)
	otro := &models.Camion{Patente: "WXYZ98", CapacidadToneladas: 10, Estado: models.CamionDisponible, ProximaMantencion: &mantencion}
	require.NoError(t, f.camiones.Create(ctx, otro))

	svc := newAutoUpdate(t, f, nil, true)
	f.now = f.now.AddDate(0, 0, 16)

	ran, err := svc.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, ran)

	assert.Equal(t, models.CotizacionVencida, f.cotizaciones.get(c.ID).Estado)
	started, err := f.viajes.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ViajeEnCurso, started.Estado)
	assert.Equal(t, models.CamionMantenimiento, f.camiones.estado(otro.ID))
	assert.Equal(t, models.CamionEnUso, f.camiones.estado(f.camion.ID))
}

func TestAutoUpdateLeavesScheduledTripsWhenDisabled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.viajeDirecto(1000)
	require.NoError(t, err)

	svc := newAutoUpdate(t, f, nil, false)
	f.now = f.now.Add(24 * time.Hour)
	_, err = svc.Tick(ctx)
	require.NoError(t, err)

	got, err := f.viajes.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ViajeProgramado, got.Estado)
}

func TestAutoUpdateSkipsWhenLockHeld(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rc := cache.NewRedisCacheFromClient(client, "fletes:")

	a := newAutoUpdate(t, f, rc, false)
	b := newAutoUpdate(t, f, rc, false)

	ok, err := rc.AcquireLock(ctx, autoUpdateLock, a.owner, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ran, err := b.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, ran)

	require.NoError(t, rc.ReleaseLock(ctx, autoUpdateLock, a.owner))
	ran, err = b.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, ran)

	ran, err = a.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, ran, "lock is released after each tick")
}

func TestAutoUpdateRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	svc := newAutoUpdate(t, f, nil, false)
	svc.cfg.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
