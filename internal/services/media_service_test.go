package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/utils"
	"fletes/pkg/logger"
	"fletes/pkg/storage"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type mediaFixture struct {
	svc        MediaService
	dir        string
	camiones   *fakeCamionRepo
	motoristas *fakeMotoristaRepo
	camion     *models.Camion
	motorista  *models.Motorista
	staff      models.Actor
}

func newMediaFixture(t *testing.T) *mediaFixture {
	t.Helper()
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir, "http://localhost:8080/media/")
	require.NoError(t, err)

	f := &mediaFixture{
		dir:       dir,
		camion:    &models.Camion{Patente: "ABCD12", Estado: models.CamionDisponible},
		motorista: &models.Motorista{Nombre: "Juan", Estado: models.MotoristaDisponible},
		staff:     models.Actor{ID: primitive.NewObjectID(), Role: models.RoleOperador},
	}
	f.camiones = newFakeCamionRepo(f.camion)
	f.motoristas = newFakeMotoristaRepo(f.motorista)
	f.svc = NewMediaService(local, f.camiones, f.motoristas, &fakeAuditRepo{}, 1<<20, 64, logger.Discard())
	return f
}

func (f *mediaFixture) stored(url string) string {
	return filepath.Join(f.dir, filepath.FromSlash(strings.TrimPrefix(url, "http://localhost:8080/media/")))
}

func TestAgregarFotoCamionResizes(t *testing.T) {
	f := newMediaFixture(t)

	camion, err := f.svc.AgregarFotoCamion(context.Background(), f.camion.ID, testPNG(t, 200, 100), f.staff)
	require.NoError(t, err)
	require.Len(t, camion.Fotos, 1)
	assert.True(t, strings.HasPrefix(camion.Fotos[0], "http://localhost:8080/media/camiones/"+f.camion.ID.Hex()+"/"))

	data, err := os.ReadFile(f.stored(camion.Fotos[0]))
	require.NoError(t, err)
	dims, err := utils.GetImageDimensions(data)
	require.NoError(t, err)
	assert.Equal(t, 64, dims.Width)
	assert.Equal(t, 32, dims.Height)
}

func TestAgregarFotoCamionRejections(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	_, err := f.svc.AgregarFotoCamion(ctx, f.camion.ID, nil, f.staff)
	assertStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.AgregarFotoCamion(ctx, f.camion.ID, []byte("%PDF-1.4 not an image"), f.staff)
	assertStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.AgregarFotoCamion(ctx, f.camion.ID, make([]byte, 2<<20), f.staff)
	assertStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.AgregarFotoCamion(ctx, primitive.NewObjectID(), testPNG(t, 10, 10), f.staff)
	assertStatus(t, err, http.StatusNotFound)
}

func TestSetFotoMotoristaReplacesPrevious(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	first, err := f.svc.SetFotoMotorista(ctx, f.motorista.ID, testPNG(t, 20, 20), f.staff)
	require.NoError(t, err)
	require.FileExists(t, f.stored(first.Foto))

	second, err := f.svc.SetFotoMotorista(ctx, f.motorista.ID, testPNG(t, 30, 30), f.staff)
	require.NoError(t, err)
	assert.NotEqual(t, first.Foto, second.Foto)
	assert.FileExists(t, f.stored(second.Foto))
	assert.NoFileExists(t, f.stored(first.Foto))
}
