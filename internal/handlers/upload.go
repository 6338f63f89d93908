// internal/handlers/upload.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/POSTANYIDEAS/Ecommerce/internal/services"
	"github.com/POSTANYIDEAS/Ecommerce/internal/utils"
)

type UploadHandler struct {
	storageService *services.StorageService
}

func NewUploadHandler(storageService *services.StorageService) *UploadHandler {
	return &UploadHandler{storageService: storageService}
}

// POST /uploads/image
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "image file is required", nil)
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.RespondError(c, err)
		return
	}

	result, err := h.storageService.UploadFile(file, header, h.storageService.ProductImageOptions())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.CreatedResponse(c, result)
}

// DELETE /uploads/:key
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		utils.BadRequestResponse(c, "key is required", nil)
		return
	}

	if err := h.storageService.DeleteFile("products/" + key); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "File deleted"})
}
