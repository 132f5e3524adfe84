package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"grocermart/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production
	},
}

// Connected clients map with mutex for thread safety
var clients = make(map[*websocket.Conn]bool)
var broadcast = make(chan []byte, 100) // Buffered channel to prevent blocking
var mutex = &sync.Mutex{}
var wsOnce sync.Once
var validate = validator.New()

// CategorySection groups one category's products for the dashboard views.
type CategorySection struct {
	Name     string
	Products []models.Product
}

// StockUpdate is broadcast to websocket clients after a purchase line commits.
type StockUpdate struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

func SetupRoutes(app *fiber.App) {

	wsHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("Error upgrading:", err)
			return
		}
		defer conn.Close()

		mutex.Lock()
		clients[conn] = true
		mutex.Unlock()
		log.Println("Client connected:", conn.RemoteAddr())

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("WebSocket read error: %v", err)
				}
				mutex.Lock()
				delete(clients, conn)
				mutex.Unlock()
				log.Println("Client disconnected:", conn.RemoteAddr())
				break
			}
		}
	})

	// Handle broadcasting stock updates to all clients
	wsOnce.Do(func() {
		go func() {
			for message := range broadcast {
				mutex.Lock()
				for client := range clients {
					err := client.WriteMessage(websocket.TextMessage, message)
					if err != nil {
						log.Printf("WebSocket write error: %v", err)
						client.Close()
						delete(clients, client)
					}
				}
				mutex.Unlock()
			}
		}()
	})

	// Mount WebSocket endpoint
	app.Get("/ws", wsHandler)

	// Customer auth routes
	app.Get("/", loginPage)
	app.Post("/", login)
	app.Get("/register", registerPage)
	app.Post("/register", register)
	app.Get("/logout_user", logoutUser)
	app.Get("/profile", profile)
	app.Post("/update_profile", updateProfile)

	// Catalog and purchase routes
	app.Get("/user_dashboard", userDashboard)
	app.Get("/buy_section/:item_name", buySectionPage)
	app.Post("/buy_section/:item_name", buySection)
	app.Get("/add_to_cart/:item_name", addToCart)
	app.Get("/cart", cartPage)
	app.Post("/checkout", checkout)

	// Manager routes
	app.Get("/manager_login", managerLoginPage)
	app.Post("/manager_login", managerLogin)
	app.Get("/logout", logoutManager)
	app.Get("/manager_dashboard", managerDashboard)
	app.Post("/manager_dashboard", managerDashboard)
	app.Post("/add_category", addCategory)
	app.Get("/add_product/:category", addProductPage)
	app.Post("/add_product/:category", addProduct)
	app.Get("/edit_product/:product_id", editProductPage)
	app.Post("/edit_product/:product_id", editProduct)
	app.Get("/delete_product/:product_id", deleteProductPage)
	app.Post("/delete_product/:product_id", deleteProduct)
	app.Get("/update_category/:category", updateCategoryPage)
	app.Post("/update_category/:category", updateCategory)
	app.Get("/delete_category/:category", deleteCategory)
	app.Get("/summary", summary)
}

// broadcastStock pushes the new stock level of a product to connected
// websocket clients. Drops the message if the channel is full.
func broadcastStock(name string, quantity int) {
	message, err := json.Marshal(StockUpdate{Product: name, Quantity: quantity})
	if err != nil {
		return
	}
	select {
	case broadcast <- message:
	default:
	}
}
