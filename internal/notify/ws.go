package notify

import (
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/officevault/backend/internal/models"
)

const pingInterval = 30 * time.Second

// Upgrade gates /ws requests: browsers cannot set an Authorization
// header on a websocket handshake, so the bearer token travels in the
// "token" query parameter instead.
func Upgrade(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		session, err := sessionFromToken(c.Query("token"), secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": true, "message": "Not authorized, token failed",
			})
		}

		c.Locals("session", session)
		return c.Next()
	}
}

// Serve returns the websocket handler that streams hub events to the
// authenticated session until the peer goes away.
func Serve(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		session, ok := conn.Locals("session").(Session)
		if !ok {
			conn.Close()
			return
		}

		events, unregister := hub.Register(session)
		defer unregister()

		// Reads are discarded; the socket only detects disconnects.
		go func() {
			defer unregister()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case event, open := <-events:
				if !open {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					slog.Info("notification session dropped", "user_id", session.UserID)
					return
				}
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	})
}

func sessionFromToken(raw string, secret string) (Session, error) {
	if raw == "" {
		return Session{}, jwt.ErrTokenMalformed
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Session{}, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, jwt.ErrTokenInvalidClaims
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Session{}, jwt.ErrTokenInvalidClaims
	}

	role, _ := claims["role"].(string)
	if !models.Role(role).Valid() {
		return Session{}, jwt.ErrTokenInvalidClaims
	}

	return Session{UserID: userID, Role: models.Role(role)}, nil
}
