package server

import (
	"checkout-funnel/internal/handler"
	custommw "checkout-funnel/internal/middleware"
	"checkout-funnel/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	echo            *echo.Echo
	paypalHandler   *handler.PaypalHandler
	leadHandler     *handler.LeadHandler
	funnelHandler   *handler.FunnelHandler
	deliveryHandler *handler.DeliveryHandler
	sessions        *session.Manager
}

func NewServer(
	paypalHandler *handler.PaypalHandler,
	leadHandler *handler.LeadHandler,
	funnelHandler *handler.FunnelHandler,
	deliveryHandler *handler.DeliveryHandler,
	sessions *session.Manager,
) *Server {
	e := echo.New()

	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		paypalHandler:   paypalHandler,
		leadHandler:     leadHandler,
		funnelHandler:   funnelHandler,
		deliveryHandler: deliveryHandler,
		sessions:        sessions,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	e := s.echo

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/check-env", s.paypalHandler.CheckEnv)

	// -------- leads / mailing list --------
	e.POST("/leads", s.leadHandler.CaptureLead)
	e.GET("/leads", s.leadHandler.ListLeads)
	e.POST("/subscribe", s.leadHandler.Subscribe)

	// -------- checkout --------
	e.POST("/orders/create", s.paypalHandler.CreateOrder)
	e.POST("/orders/capture", s.paypalHandler.CaptureOrder)
	e.POST("/process-vault-payment", s.paypalHandler.ProcessVaultPayment)
	e.GET("/paypal/generate-client-token", s.paypalHandler.GenerateClientToken)
	e.POST("/send-invoice", s.paypalHandler.SendInvoice)
	e.POST("/invoices/customize", s.paypalHandler.CustomizeInvoice)

	// -------- delivery --------
	e.GET("/generateDownloadLink", s.deliveryHandler.GenerateDownloadLink)

	// -------- gated funnel progression --------
	gate := custommw.SessionGate(s.sessions)
	e.POST("/funnel/advance", s.funnelHandler.Advance, gate)
	e.GET("/funnel/verify", s.funnelHandler.Verify, gate)
	e.POST("/deliver-products", s.deliveryHandler.DeliverProducts, gate)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
