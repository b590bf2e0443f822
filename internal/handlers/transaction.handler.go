package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/repository"
	xhttp "github.com/yakirz/sales-gateway/pkg/http"
)

type SaleService interface {
	Create(ctx context.Context, p model.SaleCreateRequest) ([]*model.Transaction, error)
	Get(ctx context.Context, id int64) (*model.Transaction, error)
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error)
	Update(ctx context.Context, id int64, values map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	StatusReport(ctx context.Context) ([]*model.PendingSale, error)
	MySales(ctx context.Context, userEmail string) ([]*model.SaleRecord, error)
	MonthlySummary(ctx context.Context, userEmail string, anyDay time.Time) (*model.MonthlySummary, error)
}

type TransactionHandler struct {
	svc SaleService
}

func RegisterTransactionRoutes(e *router.Group, h *TransactionHandler, verifier TokenVerifier) {
	e.GET("/transactions", h.ListTransactions)
	e.POST("/transactions", RequireAuth(verifier, h.CreateSale))
	e.GET("/transactions/pending", h.PendingReport)
	e.GET("/transactions/{id}", h.GetTransaction)
	e.PUT("/transactions/{id}", h.UpdateTransaction)
	e.DELETE("/transactions/{id}", h.DeleteTransaction)
	e.GET("/transactions_by_user", RequireAuth(verifier, h.MonthlySummary))
	e.GET("/my_sale", RequireAuth(verifier, h.MySales))
}

func NewTransactionHandler(svc SaleService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

type creditCardBody struct {
	CardNumber string `json:"card_number"`
	Month      string `json:"month"`
	Year       string `json:"year"`
	CVV        string `json:"cvv"`
}

type bankAccountBody struct {
	AccountNum string `json:"account_num"`
	Branch     string `json:"branch"`
	BankNum    string `json:"bank_num"`
}

type createSaleRequest struct {
	ClientID    string                     `json:"client_id"`
	FirstName   string                     `json:"first_name"`
	LastName    string                     `json:"last_name"`
	Address     string                     `json:"address"`
	City        string                     `json:"city"`
	Phone       string                     `json:"phone"`
	Email       string                     `json:"email"`
	CreditCard  *creditCardBody            `json:"credit_card"`
	BankAccount *bankAccountBody           `json:"bank_account"`
	Tracks      map[int64][]model.CartItem `json:"tracks"`
	Comment     string                     `json:"comment"`
	Reminds     string                     `json:"reminds"`
}

// transactionResponse renders a transaction row with its timestamp at
// seconds precision.
type transactionResponse struct {
	ID            int64  `json:"id"`
	UserEmail     string `json:"user_email"`
	TrackID       int64  `json:"track_id"`
	ClientID      string `json:"client_id"`
	CreditCardID  *int64 `json:"credit_card_id,omitempty"`
	BankAccountID *int64 `json:"bank_account_id,omitempty"`
	DateTime      string `json:"date_time"`
	SimNum        string `json:"sim_num"`
	PhoneNum      string `json:"phone_num"`
	Status        int    `json:"status"`
	Comment       string `json:"comment,omitempty"`
	Reminds       string `json:"reminds,omitempty"`
}

func toTransactionResponse(t *model.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		UserEmail:     t.UserEmail,
		TrackID:       t.TrackID,
		ClientID:      t.ClientID,
		CreditCardID:  t.CreditCardID,
		BankAccountID: t.BankAccountID,
		DateTime:      formatDateTime(t.DateTime),
		SimNum:        t.SimNum,
		PhoneNum:      t.PhoneNum,
		Status:        t.Status,
		Comment:       t.Comment,
		Reminds:       formatDate(t.Reminds),
	}
}

func toTransactionResponses(items []*model.Transaction) []transactionResponse {
	out := make([]transactionResponse, len(items))
	for i, t := range items {
		out[i] = toTransactionResponse(t)
	}
	return out
}

type pendingSaleResponse struct {
	TransactionID   int64  `json:"transaction_id"`
	DateTime        string `json:"date_time"`
	UserEmail       string `json:"user_email"`
	UserFirstName   string `json:"user_first_name"`
	UserLastName    string `json:"user_last_name"`
	ClientID        string `json:"client_id"`
	ClientFirstName string `json:"client_first_name"`
	ClientLastName  string `json:"client_last_name"`
	ClientPhone     string `json:"client_phone"`
	TrackName       string `json:"track_name"`
	Company         string `json:"company"`
	SimNum          string `json:"sim_num"`
	PhoneNum        string `json:"phone_num"`
	PaymentKind     string `json:"payment_kind"`
}

type saleRecordResponse struct {
	TransactionID   int64  `json:"transaction_id"`
	ClientFirstName string `json:"client_first_name"`
	ClientLastName  string `json:"client_last_name"`
	ClientPhone     string `json:"client_phone"`
	TrackName       string `json:"track_name"`
	Status          int    `json:"status"`
	DateTime        string `json:"date_time"`
	PhoneNum        string `json:"phone_num"`
	SimNum          string `json:"sim_num"`
	Comment         string `json:"comment,omitempty"`
}

// CreateSale lands a whole cart as one unit. The selling user comes from
// the bearer token, never from the body.
func (h *TransactionHandler) CreateSale(ctx *xhttp.RequestCtx) {
	claims := claimsFromCtx(ctx)
	if claims == nil {
		ctx.SetStatusCode(xhttp.StatusForbidden)
		return
	}

	var req createSaleRequest
	if err := readJSONAllowed(ctx, &req, allowedSaleFields); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	p := model.SaleCreateRequest{
		UserEmail: claims.Email,
		Client: model.ClientCreateRequest{
			ClientID:  req.ClientID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Address:   req.Address,
			City:      req.City,
			Phone:     req.Phone,
			Email:     req.Email,
		},
		Cart:    model.Cart(req.Tracks),
		Comment: req.Comment,
	}
	if req.CreditCard != nil {
		p.Payment.CreditCard = &model.CreditCard{
			CardNumber: req.CreditCard.CardNumber,
			Month:      req.CreditCard.Month,
			Year:       req.CreditCard.Year,
			CVV:        req.CreditCard.CVV,
		}
	}
	if req.BankAccount != nil {
		p.Payment.BankAccount = &model.BankAccount{
			AccountNum: req.BankAccount.AccountNum,
			Branch:     req.BankAccount.Branch,
			BankNum:    req.BankAccount.BankNum,
		}
	}
	if req.Reminds != "" {
		reminds, err := time.Parse("2006-01-02", req.Reminds)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid reminds date")
			return
		}
		p.Reminds = &reminds
	}

	created, err := h.svc.Create(ctx, p)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, map[string]any{"data": toTransactionResponses(created)})
}

func (h *TransactionHandler) ListTransactions(ctx *xhttp.RequestCtx) {
	var f model.TransactionFilter
	if v := query(ctx, "user_email"); v != "" {
		f.UserEmail = &v
	}
	if v := query(ctx, "status"); v != "" {
		if s, err := strconv.Atoi(v); err == nil {
			f.Status = &s
		}
	}
	if v := query(ctx, "client_id"); v != "" {
		f.ClientID = &v
	}

	items, err := h.svc.List(ctx, f)
	if err != nil {
		writeServerError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": toTransactionResponses(items)})
}

func (h *TransactionHandler) GetTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathParamInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid transaction id")
		return
	}

	txn, err := h.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "transaction not found")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": toTransactionResponse(txn)})
}

func (h *TransactionHandler) UpdateTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathParamInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid transaction id")
		return
	}

	values, err := updateValues(ctx, allowedTransactionUpdateFields)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	if v, ok := values["status"]; ok {
		s, ok := v.(float64)
		if !ok || s != float64(int(s)) || int(s) < model.StatusNew || int(s) > model.StatusFail {
			writeError(ctx, xhttp.StatusBadRequest, "invalid status")
			return
		}
	}

	if err := h.svc.Update(ctx, id, values); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "transaction not found")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeSuccess(ctx)
}

func (h *TransactionHandler) DeleteTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathParamInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "transaction not found")
			return
		}
		writeServerError(ctx, err)
		return
	}
	writeSuccess(ctx)
}

// PendingReport lists every sale still waiting on the carrier.
func (h *TransactionHandler) PendingReport(ctx *xhttp.RequestCtx) {
	rows, err := h.svc.StatusReport(ctx)
	if err != nil {
		writeServerError(ctx, err)
		return
	}

	out := make([]pendingSaleResponse, len(rows))
	for i, r := range rows {
		out[i] = pendingSaleResponse{
			TransactionID:   r.TransactionID,
			DateTime:        formatDateTime(r.DateTime),
			UserEmail:       r.UserEmail,
			UserFirstName:   r.UserFirstName,
			UserLastName:    r.UserLastName,
			ClientID:        r.ClientID,
			ClientFirstName: r.ClientFirstName,
			ClientLastName:  r.ClientLastName,
			ClientPhone:     r.ClientPhone,
			TrackName:       r.TrackName,
			Company:         r.Company,
			SimNum:          r.SimNum,
			PhoneNum:        r.PhoneNum,
			PaymentKind:     r.PaymentKind,
		}
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": out})
}

// MonthlySummary reports the caller's counts by status for a month, the
// current one unless ?month=YYYY-MM says otherwise.
func (h *TransactionHandler) MonthlySummary(ctx *xhttp.RequestCtx) {
	claims := claimsFromCtx(ctx)
	if claims == nil {
		ctx.SetStatusCode(xhttp.StatusForbidden)
		return
	}

	day := time.Now().UTC()
	if v := query(ctx, "month"); v != "" {
		parsed, err := time.Parse("2006-01", v)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid month, want YYYY-MM")
			return
		}
		day = parsed
	}

	summary, err := h.svc.MonthlySummary(ctx, claims.Email, day)
	if err != nil {
		writeServerError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": summary})
}

// MySales is the caller's own history, newest first.
func (h *TransactionHandler) MySales(ctx *xhttp.RequestCtx) {
	claims := claimsFromCtx(ctx)
	if claims == nil {
		ctx.SetStatusCode(xhttp.StatusForbidden)
		return
	}

	rows, err := h.svc.MySales(ctx, claims.Email)
	if err != nil {
		writeServerError(ctx, err)
		return
	}

	out := make([]saleRecordResponse, len(rows))
	for i, r := range rows {
		out[i] = saleRecordResponse{
			TransactionID:   r.TransactionID,
			ClientFirstName: r.ClientFirstName,
			ClientLastName:  r.ClientLastName,
			ClientPhone:     r.ClientPhone,
			TrackName:       r.TrackName,
			Status:          r.Status,
			DateTime:        formatDateTime(r.DateTime),
			PhoneNum:        r.PhoneNum,
			SimNum:          r.SimNum,
			Comment:         r.Comment,
		}
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"data": out})
}
