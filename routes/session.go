package routes

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

// store backs the cookie session. The cookie carries only the session ID;
// logged_in, username, cart and pending flash messages live server-side.
var store = session.New(session.Config{
	KeyGenerator: func() string {
		return uuid.New().String()
	},
})

// CartItem is one line of the session cart. Duplicate adds of the same
// product append duplicate lines.
type CartItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// FlashMessage is a one-shot notice shown on the next rendered page.
type FlashMessage struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

func isLoggedIn(sess *session.Session) bool {
	loggedIn, _ := sess.Get("logged_in").(bool)
	return loggedIn
}

// Cart and flash values are stored as JSON strings so the session encoder
// never sees a custom type.

func getCart(sess *session.Session) []CartItem {
	raw, ok := sess.Get("cart").(string)
	if !ok || raw == "" {
		return nil
	}
	var items []CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

func setCart(sess *session.Session, items []CartItem) {
	if len(items) == 0 {
		sess.Set("cart", "")
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	sess.Set("cart", string(raw))
}

func addFlash(sess *session.Session, message, category string) {
	flashes := peekFlashes(sess)
	flashes = append(flashes, FlashMessage{Message: message, Category: category})
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	sess.Set("flashes", string(raw))
}

func peekFlashes(sess *session.Session) []FlashMessage {
	raw, ok := sess.Get("flashes").(string)
	if !ok || raw == "" {
		return nil
	}
	var flashes []FlashMessage
	if err := json.Unmarshal([]byte(raw), &flashes); err != nil {
		return nil
	}
	return flashes
}

func popFlashes(sess *session.Session) []FlashMessage {
	flashes := peekFlashes(sess)
	sess.Set("flashes", "")
	return flashes
}

// renderPage renders a view with any pending flash messages attached and
// persists the session so the flashes are not shown twice.
func renderPage(c *fiber.Ctx, sess *session.Session, name string, data fiber.Map) error {
	data["Flashes"] = popFlashes(sess)
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Render(name, data)
}

// flashRedirect queues a flash message and redirects.
func flashRedirect(c *fiber.Ctx, sess *session.Session, message, category, location string) error {
	addFlash(sess, message, category)
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect(location)
}
