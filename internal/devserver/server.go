package devserver

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/session"
)

const (
	localsUser = "user"

	refreshCookiePath = "/auth"
)

// Server is an in-memory implementation of the dashboard API
type Server struct {
	app    *fiber.App
	store  *Store
	tokens *tokenIssuer
	config Config
}

// New creates a new dev server
func New(config Config) (*Server, error) {
	config = config.withDefaults()

	seed := config.Seed
	if seed == nil {
		seed = DefaultSeed()
	}

	store, err := NewStore(seed, config.BcryptCost, config.Now)
	if err != nil {
		return nil, err
	}

	s := Server{
		store:  store,
		tokens: newTokenIssuer(config),
		config: config,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "admin-dev-server",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.routes()
	return &s, nil
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App { return s.app }

// Store returns the server's store
func (s *Server) Store() *Store { return s.store }

// Listen serves the API on the provided address
func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

// Listener serves the API on the provided listener
func (s *Server) Listener(ln net.Listener) error { return s.app.Listener(ln) }

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	if s.config.AccessLog != nil {
		s.app.Use(logger.New(logger.Config{
			Output:     s.config.AccessLog,
			Format:     "${time} UTC INFO  ${status} ${method} ${path} ${latency} ${locals:requestid}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "UTC",
		}))
	}

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return respond(c, fiber.StatusOK, fiber.Map{"status": "ok"})
	})

	auth := s.app.Group("/auth")
	auth.Post("/login", s.login)
	auth.Get("/refresh", s.refresh)
	auth.Post("/refresh", s.refresh)
	auth.Post("/logout", s.logout)

	s.app.Get("/users/info", s.authenticate, s.userInfo)
	s.app.Get("/dashboard/stats", s.authenticate, s.requireAdmin, s.stats)

	products := s.app.Group("/products", s.authenticate)
	products.Get("/", s.listProducts)
	products.Post("/", s.requireAdmin, s.createProduct)
	products.Get("/:id", s.getProduct)
	products.Patch("/:id", s.requireAdmin, s.updateProduct)
	products.Delete("/:id", s.requireAdmin, s.deleteProduct)

	transactions := s.app.Group("/transactions", s.authenticate)
	transactions.Get("/", s.listTransactions)
	transactions.Post("/", s.createTransaction)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	user, err := s.store.Authenticate(req.Username, req.Password)
	if err != nil {
		return err
	}
	return s.issueSession(c, user, true)
}

func (s *Server) refresh(c *fiber.Ctx) error {
	userID, err := s.tokens.redeem(c.Cookies(session.DefaultRefreshCookie))
	if err != nil {
		s.clearRefreshCookie(c)
		return fiber.ErrUnauthorized
	}

	user, ok := s.store.User(userID)
	if !ok {
		s.clearRefreshCookie(c)
		return fiber.ErrUnauthorized
	}
	return s.issueSession(c, user, false)
}

func (s *Server) logout(c *fiber.Ctx) error {
	if token := c.Cookies(session.DefaultRefreshCookie); token != "" {
		s.tokens.revoke(token)
	}
	s.clearRefreshCookie(c)
	return respond(c, fiber.StatusOK, fiber.Map{"success": true})
}

// issueSession responds with a new access token and rotates the refresh cookie
func (s *Server) issueSession(c *fiber.Ctx, user session.User, includeRefreshToken bool) error {
	accessToken, err := s.tokens.accessToken(user.ID, user.Role.Name)
	if err != nil {
		return err
	}

	refreshToken := s.tokens.refreshToken(user.ID)
	c.Cookie(&fiber.Cookie{
		Name:     session.DefaultRefreshCookie,
		Value:    refreshToken,
		Path:     refreshCookiePath,
		MaxAge:   int(s.config.RefreshTokenTTL / time.Second),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	res := dashboard.AuthResponse{AccessToken: accessToken, User: user}
	if includeRefreshToken {
		res.RefreshToken = refreshToken
	}
	return respond(c, fiber.StatusOK, res)
}

func (s *Server) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.DefaultRefreshCookie,
		Path:     refreshCookiePath,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// authenticate resolves the user of the bearer access token
func (s *Server) authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return fiber.ErrUnauthorized
	}

	userID, err := s.tokens.verify(token)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	user, ok := s.store.User(userID)
	if !ok {
		return fiber.ErrUnauthorized
	}

	c.Locals(localsUser, user)
	return c.Next()
}

func (s *Server) requireAdmin(c *fiber.Ctx) error {
	if !currentUser(c).IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "Forbidden resource")
	}
	return c.Next()
}

func (s *Server) userInfo(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, currentUser(c))
}

func (s *Server) stats(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, s.store.Stats(s.config.LowStockThreshold))
}

func (s *Server) listProducts(c *fiber.Ctx) error {
	page, limit := pagination(c)
	return respond(c, fiber.StatusOK, s.store.Products(c.Query("search"), page, limit))
}

func (s *Server) getProduct(c *fiber.Ctx) error {
	product, err := s.store.Product(c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, product)
}

func (s *Server) createProduct(c *fiber.Ctx) error {
	var input dashboard.ProductInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&input,
		validation.Field(&input.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&input.SKU, validation.Required, validation.Length(1, 64)),
		validation.Field(&input.Price, validation.Min(0.0)),
		validation.Field(&input.Quantity, validation.Min(0)),
	); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	product, err := s.store.CreateProduct(input)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, product)
}

func (s *Server) updateProduct(c *fiber.Ctx) error {
	var patch dashboard.ProductPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&patch,
		validation.Field(&patch.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&patch.SKU, validation.NilOrNotEmpty, validation.Length(1, 64)),
		validation.Field(&patch.Price, validation.Min(0.0)),
		validation.Field(&patch.Quantity, validation.Min(0)),
	); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	product, err := s.store.UpdateProduct(c.Params("id"), patch)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, product)
}

func (s *Server) deleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.store.DeleteProduct(id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"id": id})
}

var transactionTypes = []interface{}{dashboard.TransactionTypeIn, dashboard.TransactionTypeOut}

func (s *Server) listTransactions(c *fiber.Ctx) error {
	txnType := dashboard.TransactionType(c.Query("type"))
	if err := validation.Validate(txnType, validation.In(transactionTypes...)); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "type: "+err.Error())
	}

	page, limit := pagination(c)
	return respond(c, fiber.StatusOK, s.store.Transactions(c.Query("productId"), txnType, page, limit))
}

func (s *Server) createTransaction(c *fiber.Ctx) error {
	var input dashboard.TransactionInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&input,
		validation.Field(&input.ProductID, validation.Required),
		validation.Field(&input.Type, validation.Required, validation.In(transactionTypes...)),
		validation.Field(&input.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&input.Note, validation.Length(0, 500)),
	); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	txn, err := s.store.CreateTransaction(currentUser(c).ID, input)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, txn)
}

func currentUser(c *fiber.Ctx) session.User {
	user, _ := c.Locals(localsUser).(session.User)
	return user
}

func pagination(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	limit := c.QueryInt("limit", defaultPageLimit)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}
	return nil
}

func respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"data": data})
}

// errorHandler writes every error as the dashboard error envelope
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := http.StatusText(status)

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(status).JSON(dashboard.ServerError{
		StatusCode: status,
		Message:    message,
		Kind:       http.StatusText(status),
	})
}
