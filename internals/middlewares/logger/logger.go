package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LoggerMiddleware mencatat semua request ke stdout dan logs/app.log.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${ip} - ${method} ${path} - ${status} - ${latency}\n",
		Output:     logOutput(),
	})
}

func logOutput() io.Writer {
	dir := "logs"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("⚠️ Gagal membuat direktori log: %v", err)
		return os.Stdout
	}
	f, err := os.OpenFile(filepath.Join(dir, "app.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("⚠️ Gagal membuka file log: %v", err)
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, f)
}
