package handlers

import "github.com/gofiber/fiber/v2"

// indexPage is the minimal shell; the todo UI itself talks to the JSON API.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Todo</title>
</head>
<body>
  <h1>Todo API</h1>
  <p>The REST API is served under <code>/api/todos</code> and <code>/api/v1/todos</code>.</p>
</body>
</html>
`

func HandleIndex(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(indexPage)
}
