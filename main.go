package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/schoolqr/attendance-api/cmd/app"
)

// @title           School Attendance API
// @version         1.0
// @description     QR-code based attendance tracking for schools.
//
// @BasePath  /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
