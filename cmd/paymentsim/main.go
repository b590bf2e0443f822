package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CreditCard is the card instrument as the gateway sends it.
type CreditCard struct {
	CardNumber string `json:"card_number"`
	Month      string `json:"month"`
	Year       string `json:"year"`
}

// BankAccount is the direct-debit instrument as the gateway sends it.
type BankAccount struct {
	AccountNum string `json:"account_num"`
	Branch     string `json:"branch"`
	BankNum    string `json:"bank_num"`
}

// VerifyRequest represents a payment verification request
type VerifyRequest struct {
	ClientID    string       `json:"client_id" binding:"required"`
	CreditCard  *CreditCard  `json:"credit_card"`
	BankAccount *BankAccount `json:"bank_account"`
}

// VerifyResponse represents the verifier's answer
type VerifyResponse struct {
	Approved  bool   `json:"approved"`
	Reference string `json:"reference"`
	Reason    string `json:"reason,omitempty"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status       string    `json:"status"`
	VerifierID   string    `json:"verifier_id"`
	Timestamp    time.Time `json:"timestamp"`
	ApprovalRate float64   `json:"approval_rate"`
}

// MockVerifier simulates a payment verification provider
type MockVerifier struct {
	approvalRate float64
	minDelay     time.Duration
	maxDelay     time.Duration
	verifierID   string
	rng          *rand.Rand
}

func NewMockVerifier(approvalRate float64, minDelay, maxDelay time.Duration) *MockVerifier {
	return &MockVerifier{
		approvalRate: approvalRate,
		minDelay:     minDelay,
		maxDelay:     maxDelay,
		verifierID:   "MOCK_VERIFIER_" + uuid.New().String()[:8],
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// verify simulates the provider's answer. Structurally broken instruments
// are always declined; beyond that the configured approval rate decides.
func (m *MockVerifier) verify(req *VerifyRequest) *VerifyResponse {
	time.Sleep(m.randomDelay())

	response := &VerifyResponse{
		Reference: m.verifierID + ":" + uuid.New().String(),
	}

	if reason := m.structuralReject(req); reason != "" {
		response.Approved = false
		response.Reason = reason

		log.Warn().
			Str("client_id", req.ClientID).
			Str("reason", reason).
			Msg("Payment instrument rejected")
		return response
	}

	if m.shouldApprove() {
		response.Approved = true

		log.Info().
			Str("client_id", req.ClientID).
			Str("reference", response.Reference).
			Msg("Payment instrument approved")
	} else {
		response.Approved = false
		response.Reason = m.randomDeclineReason()

		log.Warn().
			Str("client_id", req.ClientID).
			Str("reason", response.Reason).
			Msg("Payment instrument declined")
	}

	return response
}

func (m *MockVerifier) structuralReject(req *VerifyRequest) string {
	if req.CreditCard == nil && req.BankAccount == nil {
		return "no payment instrument supplied"
	}
	if req.CreditCard != nil && req.BankAccount != nil {
		return "more than one payment instrument supplied"
	}
	if c := req.CreditCard; c != nil {
		digits := strings.ReplaceAll(c.CardNumber, " ", "")
		if len(digits) < 12 || len(digits) > 19 {
			return "card number has an invalid length"
		}
		if c.Month == "" || c.Year == "" {
			return "card expiry is incomplete"
		}
	}
	if b := req.BankAccount; b != nil {
		if b.AccountNum == "" || b.BankNum == "" {
			return "bank account details are incomplete"
		}
	}
	return ""
}

func (m *MockVerifier) randomDelay() time.Duration {
	delta := m.maxDelay - m.minDelay
	if delta <= 0 {
		return m.minDelay
	}
	return m.minDelay + time.Duration(m.rng.Int63n(int64(delta)))
}

func (m *MockVerifier) shouldApprove() bool {
	return m.rng.Float64() < m.approvalRate
}

func (m *MockVerifier) randomDeclineReason() string {
	reasons := []string{
		"insufficient funds",
		"card reported stolen",
		"issuer unreachable",
		"account frozen",
		"transaction limit exceeded",
	}
	return reasons[m.rng.Intn(len(reasons))]
}

// Handler struct holds the mock verifier and routes
type Handler struct {
	verifier *MockVerifier
}

func NewHandler(verifier *MockVerifier) *Handler {
	return &Handler{verifier: verifier}
}

// Verify handles payment verification requests
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	log.Info().
		Str("client_id", req.ClientID).
		Bool("has_card", req.CreditCard != nil).
		Bool("has_account", req.BankAccount != nil).
		Msg("Received verification request")

	response := h.verifier.verify(&req)

	statusCode := http.StatusOK
	if !response.Approved {
		statusCode = http.StatusAccepted // 202: processed but declined
	}

	c.JSON(statusCode, response)
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:       "healthy",
		VerifierID:   h.verifier.verifierID,
		Timestamp:    time.Now(),
		ApprovalRate: h.verifier.approvalRate,
	})
}

// UpdateConfig allows changing the approval rate at runtime
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		ApprovalRate *float64 `json:"approval_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if config.ApprovalRate != nil {
		if *config.ApprovalRate >= 0 && *config.ApprovalRate <= 1.0 {
			h.verifier.approvalRate = *config.ApprovalRate
			log.Info().Float64("rate", *config.ApprovalRate).Msg("Updated approval rate")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Configuration updated",
		"approval_rate": h.verifier.approvalRate,
	})
}

// SetupRouter configures all routes
func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/payments/verify", handler.Verify)
		v1.GET("/health", handler.HealthCheck)
		v1.PUT("/config", handler.UpdateConfig)
	}

	// Root health check
	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Get configuration from environment
	port := getEnv("PORT", "8082")
	approvalRate := getEnvFloat("APPROVAL_RATE", 1)
	minDelay := getEnvDuration("MIN_DELAY", 50*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 500*time.Millisecond)

	log.Info().
		Str("port", port).
		Float64("approval_rate", approvalRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("Starting Mock Payment Verifier")

	verifier := NewMockVerifier(approvalRate, minDelay, maxDelay)
	handler := NewHandler(verifier)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
