package Notifications

import (
	"context"
	"fmt"
	"log"

	"Crane/Config"
	"Crane/Models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

var firebaseClient *messaging.Client
var ctx = context.Background()

// InitFirebase sets up the FCM client. Call once at startup; push is
// silently disabled when no credentials file is configured.
func InitFirebase() error {
	credFile := Config.AppConfig.FirebaseCredentialsFile
	if credFile == "" {
		log.Println("Firebase credentials not configured, push notifications disabled")
		return nil
	}

	opt := option.WithCredentialsFile(credFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return fmt.Errorf("error initializing Firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("error getting Messaging client: %v", err)
	}

	firebaseClient = client
	log.Println("Firebase initialized successfully")
	return nil
}

// NotifyUser pushes a notification to every registered device of a user.
// Dead tokens are removed as FCM reports them.
func NotifyUser(db *gorm.DB, userID uint, title, body string, data map[string]string) {
	if firebaseClient == nil {
		return
	}

	var tokens []Models.FCMToken
	if err := db.Where("user_id = ?", userID).Find(&tokens).Error; err != nil {
		log.Printf("Failed to load FCM tokens for user %d: %v", userID, err)
		return
	}

	for _, t := range tokens {
		message := &messaging.Message{
			Token: t.Token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}
		if _, err := firebaseClient.Send(ctx, message); err != nil {
			log.Printf("Error sending notification to user %d: %v", userID, err)
			if messaging.IsUnregistered(err) {
				db.Delete(&t)
			}
		}
	}
}

// NotifyTaskAssigned tells the assignee about a new task.
func NotifyTaskAssigned(db *gorm.DB, task *Models.Task, projectName string) {
	if task.AssigneeID == nil {
		return
	}
	NotifyUser(db, *task.AssigneeID,
		"New task: "+task.Title,
		fmt.Sprintf("You were assigned a task on %s", projectName),
		map[string]string{
			"type":       "task",
			"task_id":    fmt.Sprint(task.ID),
			"project_id": fmt.Sprint(task.ProjectID),
		})
}

// NotifyPunchItemAssigned tells the assignee about a punch list item.
func NotifyPunchItemAssigned(db *gorm.DB, item *Models.PunchListItem, projectName string) {
	if item.AssigneeID == nil {
		return
	}
	NotifyUser(db, *item.AssigneeID,
		"Punch list item assigned",
		fmt.Sprintf("%s — %s", projectName, item.Description),
		map[string]string{
			"type":       "punch_item",
			"item_id":    fmt.Sprint(item.ID),
			"project_id": fmt.Sprint(item.ProjectID),
		})
}
