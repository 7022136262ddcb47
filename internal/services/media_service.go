package services

import (
	"bytes"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/internal/utils"
	"fletes/pkg/logger"
	"fletes/pkg/storage"
)

const (
	folderCamiones   = "camiones"
	folderMotoristas = "motoristas"
)

// MediaService stores truck and driver photos.
type MediaService interface {
	AgregarFotoCamion(ctx context.Context, id primitive.ObjectID, data []byte, actor models.Actor) (*models.Camion, error)
	SetFotoMotorista(ctx context.Context, id primitive.ObjectID, data []byte, actor models.Actor) (*models.Motorista, error)
}

type mediaService struct {
	storage       storage.StorageProvider
	camionRepo    interfaces.CamionRepository
	motoristaRepo interfaces.MotoristaRepository
	maxSize       int64
	maxSide       uint
	audit         *auditTrail
	logger        *logger.Logger
}

func NewMediaService(
	provider storage.StorageProvider,
	camionRepo interfaces.CamionRepository,
	motoristaRepo interfaces.MotoristaRepository,
	auditLogRepo interfaces.AuditLogRepository,
	maxSize int64,
	maxSide int,
	logger *logger.Logger,
) MediaService {
	if maxSize <= 0 {
		maxSize = 5 << 20
	}
	if maxSide <= 0 {
		maxSide = 1280
	}
	return &mediaService{
		storage:       provider,
		camionRepo:    camionRepo,
		motoristaRepo: motoristaRepo,
		maxSize:       maxSize,
		maxSide:       uint(maxSide),
		audit:         newAuditTrail(auditLogRepo, logger),
		logger:        logger,
	}
}

// upload checks, resizes and stores one image, returning its public URL.
func (s *mediaService) upload(ctx context.Context, folder string, owner primitive.ObjectID, data []byte) (string, error) {
	if len(data) == 0 {
		return "", utils.Validation(map[string]string{"file": "Debe adjuntar una imagen"})
	}
	if int64(len(data)) > s.maxSize {
		return "", utils.BadRequest(fmt.Sprintf("La imagen supera el máximo de %d MB", s.maxSize>>20))
	}
	if !utils.IsImageContent(data) {
		return "", utils.BadRequest("Solo se permiten imágenes JPEG, PNG o GIF")
	}

	resized, contentType, err := utils.ResizeImage(data, s.maxSide)
	if err != nil {
		return "", utils.BadRequest("No se pudo procesar la imagen")
	}

	res, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:          utils.GenerateObjectKey(folder, owner.Hex(), contentType),
		Reader:       bytes.NewReader(resized),
		ContentType:  contentType,
		Size:         int64(len(resized)),
		CacheControl: "public, max-age=31536000",
		Metadata:     map[string]string{"owner": owner.Hex()},
	})
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return res.URL, nil
}

func (s *mediaService) AgregarFotoCamion(ctx context.Context, id primitive.ObjectID, data []byte, actor models.Actor) (*models.Camion, error) {
	if _, err := s.camionRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	url, err := s.upload(ctx, folderCamiones, id, data)
	if err != nil {
		return nil, err
	}

	camion, err := s.camionRepo.AddFoto(ctx, id, url)
	if err != nil {
		s.discard(ctx, url)
		return nil, err
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, entityCamion, id, "", "", map[string]interface{}{"foto": url})
	return camion, nil
}

// SetFotoMotorista replaces the driver photo and removes the previous file.
func (s *mediaService) SetFotoMotorista(ctx context.Context, id primitive.ObjectID, data []byte, actor models.Actor) (*models.Motorista, error) {
	current, err := s.motoristaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.upload(ctx, folderMotoristas, id, data)
	if err != nil {
		return nil, err
	}

	motorista, err := s.motoristaRepo.Update(ctx, id, interfaces.Updates{"foto": url})
	if err != nil {
		s.discard(ctx, url)
		return nil, err
	}
	if current.Foto != "" {
		s.discard(ctx, current.Foto)
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, entityMotorista, id, "", "", map[string]interface{}{"foto": url})
	return motorista, nil
}

func (s *mediaService) discard(ctx context.Context, url string) {
	key, ok := s.storage.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to delete stored image")
	}
}
