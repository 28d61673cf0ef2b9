package main

import (
	"crm-notification-service/internal/app"

	"github.com/sirupsen/logrus"

	_ "crm-notification-service/docs"
)

// @title CRM Notification Service API
// @version 1.0
// @description Notification trigger and delivery engine for the CRM backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	application, err := app.New()
	if err != nil {
		logrus.Fatalf("Failed to create application: %v", err)
	}

	if err := application.Run(); err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}
