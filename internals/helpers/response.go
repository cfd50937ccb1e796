package helper

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gerejaku_backend/internals/configs"
)

// Envelope seragam: {success, data?, message?}

func JsonOK(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JsonCreated(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// JsonList menyertakan blok pagination di samping data.
func JsonList(c *fiber.Ctx, data interface{}, meta Meta) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"data":       data,
		"pagination": meta,
	})
}

func JsonError(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// ✅ Khusus error validasi (validator.v10)
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "Input tidak valid")
	}

	errorsMap := make(map[string]string, len(ve))
	for _, fieldErr := range ve {
		errorsMap[fieldErr.Field()] = fieldErr.Tag()
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validasi gagal",
		"errors":  errorsMap,
	})
}

// ErrorHandler menerjemahkan error ke envelope.
// 400 validasi / 404 not found dilempar sebagai *fiber.Error dari controller;
// sisanya jatuh ke 500 generik (detail hanya saat development).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	log.Printf("[ERROR] unhandled: %s %s: %v", c.Method(), c.OriginalURL(), err)
	msg := "Terjadi kesalahan internal"
	if configs.IsDevelopment() {
		msg = err.Error()
	}
	return JsonError(c, fiber.StatusInternalServerError, msg)
}
