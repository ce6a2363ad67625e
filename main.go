package main

import (
	"log"

	"Crane/Config"
	"Crane/CronJobs"
	"Crane/FiberConfig"
	"Crane/Models"
	"Crane/Notifications"
	"Crane/Storage"
)

func main() {
	Config.Load()
	Models.Connect()

	if err := Storage.Connect(); err != nil {
		log.Println("Storage disabled:", err)
	}
	if err := Notifications.InitFirebase(); err != nil {
		log.Println("Push notifications disabled:", err)
	}

	scheduler := CronJobs.NewScheduler(Models.DB)
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start scheduler:", err)
	}
	defer scheduler.Stop()

	FiberConfig.FiberConfig()
}
