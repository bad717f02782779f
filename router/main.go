package router

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/todo-api/database"
	"github.com/sahilchouksey/todo-api/handlers"
	todo_handlers "github.com/sahilchouksey/todo-api/handlers/todo"
	todov1_handlers "github.com/sahilchouksey/todo-api/handlers/todov1"
	"github.com/sahilchouksey/todo-api/utils"
	"github.com/sahilchouksey/todo-api/utils/cache"
	"github.com/sahilchouksey/todo-api/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	db := store.DB()

	legacyHandler := todo_handlers.NewTodoHandler(db)
	v1Handler := todov1_handlers.NewTodoHandler(db)

	// Redis-backed throttle on mutating routes. Optional: a nil throttle
	// passes every request through.
	var throttle *middleware.WriteThrottle
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisCache, err := cache.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Write throttling will be disabled.", err)
		} else {
			throttle = middleware.NewWriteThrottle(redisCache)
		}
	}

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// Minimal page shell
	app.Get("/", handlers.HandleIndex)

	// Legacy API group. Fixed-path routes are registered before /:id so
	// they are not captured as ids.
	legacy := app.Group("/api/todos")
	legacy.Get("/date-range", legacyHandler.GetTodosByDateRange)
	legacy.Get("/priority/:priority", legacyHandler.GetTodosByPriority)
	legacy.Get("/collaborator/:collaborator", legacyHandler.GetTodosByCollaborator)
	legacy.Post("/", throttle.Limit(), legacyHandler.CreateTodo)
	legacy.Get("/", legacyHandler.ListTodos)
	legacy.Get("/:id", legacyHandler.GetTodo)
	legacy.Put("/:id", throttle.Limit(), legacyHandler.UpdateTodo)
	legacy.Delete("/:id", throttle.Limit(), legacyHandler.DeleteTodo)
	legacy.Patch("/:id/toggle", throttle.Limit(), legacyHandler.ToggleTodo)

	// API v1 group
	v1 := app.Group("/api/v1/todos")
	v1.Get("/date-range", v1Handler.GetTodosByDateRange)
	v1.Get("/overdue", v1Handler.GetOverdueTodos)
	v1.Get("/due-today", v1Handler.GetTodosDueToday)
	v1.Get("/priority/:priority", v1Handler.GetTodosByPriority)
	v1.Get("/collaborator/:collaborator", v1Handler.GetTodosByCollaborator)
	v1.Post("/", throttle.Limit(), v1Handler.CreateTodo)
	v1.Get("/", v1Handler.ListTodos)
	v1.Get("/:id", v1Handler.GetTodo)
	v1.Put("/:id", throttle.Limit(), v1Handler.UpdateTodo)
	v1.Delete("/:id", throttle.Limit(), v1Handler.DeleteTodo)
	v1.Patch("/:id/toggle", throttle.Limit(), v1Handler.ToggleTodo)
}
