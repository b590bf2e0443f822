package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/pkg/pg"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type TransactionRepository struct {
	*pg.DB
}

func NewTransactionRepository(db *pg.DB) *TransactionRepository {
	return &TransactionRepository{
		db,
	}
}

// CreateSale turns a cart into transaction rows as one unit of work. The
// client is resolved by external client_id and created only when missing;
// fields of an existing client are left untouched. All rows share one
// creation instant and start in status new. Any failure rolls back the
// whole cart.
func (r *TransactionRepository) CreateSale(ctx context.Context, p model.SaleCreateRequest) ([]*model.Transaction, error) {
	var created []*model.Transaction

	err := r.WithinTransaction(ctx, func(ctx context.Context) error {
		clientID, err := r.resolveClient(ctx, p.Client)
		if err != nil {
			return err
		}

		cardID, accountID, err := r.resolvePayment(ctx, clientID, p.Payment)
		if err != nil {
			return err
		}

		now := time.Now().UTC().Truncate(time.Second)
		for trackID, items := range p.Cart {
			for _, item := range items {
				entity := &TransactionEntity{
					UserEmail:     p.UserEmail,
					TrackID:       trackID,
					ClientID:      clientID,
					CreditCardID:  cardID,
					BankAccountID: accountID,
					DateTime:      now,
					SimNum:        item.SimNum,
					PhoneNum:      item.PhoneNum,
					Status:        model.StatusNew,
					Comment:       optional(p.Comment),
					Reminds:       p.Reminds,
				}
				if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
					return err
				}
				created = append(created, toTransactionModel(entity))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *TransactionRepository) resolveClient(ctx context.Context, p model.ClientCreateRequest) (string, error) {
	var existing ClientEntity
	err := r.Write(ctx).WithContext(ctx).
		Where("client_id = ?", p.ClientID).
		First(&existing).
		Error
	if err == nil {
		return existing.ClientID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	entity := &ClientEntity{
		ClientID:  p.ClientID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Address:   p.Address,
		City:      p.City,
		Phone:     p.Phone,
		Email:     optional(p.Email),
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return "", err
	}
	return entity.ClientID, nil
}

func (r *TransactionRepository) resolvePayment(ctx context.Context, clientID string, p model.PaymentRef) (cardID, accountID *int64, err error) {
	payments := PaymentRepository{r.DB}

	if p.CreditCard != nil {
		card := *p.CreditCard
		card.ClientID = clientID
		stored, err := payments.UpsertCreditCard(ctx, &card)
		if err != nil {
			return nil, nil, err
		}
		return &stored.ID, nil, nil
	}
	if p.BankAccount != nil {
		account := *p.BankAccount
		account.ClientID = clientID
		stored, err := payments.UpsertBankAccount(ctx, &account)
		if err != nil {
			return nil, nil, err
		}
		return nil, &stored.ID, nil
	}
	return nil, nil, nil
}

func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	entity := &TransactionEntity{
		UserEmail:     txn.UserEmail,
		TrackID:       txn.TrackID,
		ClientID:      txn.ClientID,
		CreditCardID:  txn.CreditCardID,
		BankAccountID: txn.BankAccountID,
		DateTime:      txn.DateTime,
		SimNum:        txn.SimNum,
		PhoneNum:      txn.PhoneNum,
		Status:        txn.Status,
		Comment:       optional(txn.Comment),
		Reminds:       txn.Reminds,
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toTransactionModel(entity), nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	var entity TransactionEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return toTransactionModel(&entity), nil
}

func (r *TransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&TransactionEntity{})
	if f.UserEmail != nil && *f.UserEmail != "" {
		q = q.Where("user_email = ?", *f.UserEmail)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.ClientID != nil && *f.ClientID != "" {
		q = q.Where("client_id = ?", *f.ClientID)
	}

	var entities []*TransactionEntity
	if err := q.Order("date_time ASC, id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toTransactionModels(entities), nil
}

func (r *TransactionRepository) Update(ctx context.Context, id int64, values map[string]interface{}) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&TransactionEntity{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Delete is best-effort: sales history is normally kept forever.
func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&TransactionEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// StatusReport lists every still-new transaction with the joined display
// data an admin needs to chase it: who sold, to whom, which track, how it
// is being paid.
func (r *TransactionRepository) StatusReport(ctx context.Context) ([]*model.PendingSale, error) {
	var rows []*model.PendingSale
	err := r.Read(ctx).WithContext(ctx).
		Table("transactions AS t").
		Select(`
            t.id          AS transaction_id,
            t.date_time   AS date_time,
            t.user_email  AS user_email,
            u.user_first_name AS user_first_name,
            u.user_last_name  AS user_last_name,
            t.client_id   AS client_id,
            c.first_name  AS client_first_name,
            c.last_name   AS client_last_name,
            c.phone       AS client_phone,
            tr.track_name AS track_name,
            tr.company    AS company,
            t.sim_num     AS sim_num,
            t.phone_num   AS phone_num,
            CASE
                WHEN t.credit_card_id IS NOT NULL THEN 'credit_card'
                WHEN t.bank_account_id IS NOT NULL THEN 'bank_account'
                ELSE ''
            END AS payment_kind
        `).
		Joins("LEFT JOIN users AS u ON u.user_email = t.user_email").
		Joins("LEFT JOIN clients AS c ON c.client_id = t.client_id").
		Joins("LEFT JOIN tracks AS tr ON tr.id = t.track_id").
		Where("t.status = ?", model.StatusNew).
		Order("t.date_time ASC, t.id ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MySales returns the given salesperson's full history joined with client
// and track display data, joining on the external client id.
func (r *TransactionRepository) MySales(ctx context.Context, userEmail string) ([]*model.SaleRecord, error) {
	var rows []*model.SaleRecord
	err := r.Read(ctx).WithContext(ctx).
		Table("transactions AS t").
		Select(`
            t.id         AS transaction_id,
            c.first_name AS client_first_name,
            c.last_name  AS client_last_name,
            c.phone      AS client_phone,
            tr.track_name AS track_name,
            t.status     AS status,
            t.date_time  AS date_time,
            t.phone_num  AS phone_num,
            t.sim_num    AS sim_num,
            t.comment    AS comment
        `).
		Joins("LEFT JOIN clients AS c ON c.client_id = t.client_id").
		Joins("LEFT JOIN tracks AS tr ON tr.id = t.track_id").
		Where("t.user_email = ?", userEmail).
		Order("t.date_time DESC, t.id DESC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlySummary counts the user's transactions by status within
// [monthStart, nextMonthStart). A user with no rows gets all-zero counts.
func (r *TransactionRepository) MonthlySummary(ctx context.Context, userEmail string, monthStart time.Time) (*model.MonthlySummary, error) {
	nextMonth := monthStart.AddDate(0, 1, 0)

	type statusCount struct {
		Status int   `db:"status"`
		Count  int64 `db:"count"`
	}
	var counts []statusCount
	err := r.Read(ctx).WithContext(ctx).
		Model(&TransactionEntity{}).
		Select("status, COUNT(*) AS count").
		Where("user_email = ?", userEmail).
		Where("date_time >= ? AND date_time < ?", monthStart, nextMonth).
		Group("status").
		Scan(&counts).
		Error
	if err != nil {
		return nil, err
	}

	summary := &model.MonthlySummary{}
	for _, c := range counts {
		switch c.Status {
		case model.StatusNew:
			summary.Waiting = c.Count
		case model.StatusSuccess:
			summary.Success = c.Count
		case model.StatusFail:
			summary.Fail = c.Count
		}
	}
	return summary, nil
}
