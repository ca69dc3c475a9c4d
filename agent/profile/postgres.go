package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const defaultHistoryLimit = 50

type PostgresConfig struct {
	DSN             string        `envconfig:"DSN" split_words:"true" required:"true"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" split_words:"true" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" split_words:"true" default:"5m"`
}

// PostgresStore implements Store on top of bun/pgdriver.
type PostgresStore struct {
	db  *bun.DB
	now func() time.Time
}

func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &PostgresStore{db: db, now: time.Now}
	if err := store.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	models := []any{
		(*userRow)(nil),
		(*medicalAidRow)(nil),
		(*conditionRow)(nil),
		(*medicationRow)(nil),
		(*allergyRow)(nil),
		(*accountRow)(nil),
		(*chatMessageRow)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

type userRow struct {
	bun.BaseModel `bun:"table:users"`

	UserID      int64      `bun:"user_id,pk,autoincrement"`
	FirstName   string     `bun:"first_name,notnull"`
	LastName    string     `bun:"last_name,notnull"`
	Email       string     `bun:"email,notnull,unique"`
	Phone       string     `bun:"phone"`
	DateOfBirth *time.Time `bun:"date_of_birth"`
	Gender      string     `bun:"gender"`
	Province    string     `bun:"province"`
	City        string     `bun:"city"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp"`
}

type medicalAidRow struct {
	bun.BaseModel `bun:"table:medical_aid"`

	MedicalAidID     int64  `bun:"medical_aid_id,pk,autoincrement"`
	UserID           int64  `bun:"user_id,notnull"`
	SchemeName       string `bun:"scheme_name"`
	PlanType         string `bun:"plan_type"`
	MembershipNumber string `bun:"membership_number"`
	IsActive         bool   `bun:"is_active,default:true"`
}

type conditionRow struct {
	bun.BaseModel `bun:"table:medical_history"`

	HistoryID     int64  `bun:"history_id,pk,autoincrement"`
	UserID        int64  `bun:"user_id,notnull"`
	ConditionName string `bun:"condition_name,notnull"`
	Status        string `bun:"status"`
	Notes         string `bun:"notes"`
}

type medicationRow struct {
	bun.BaseModel `bun:"table:medications"`

	MedicationID   int64  `bun:"medication_id,pk,autoincrement"`
	UserID         int64  `bun:"user_id,notnull"`
	MedicationName string `bun:"medication_name,notnull"`
	Dosage         string `bun:"dosage"`
	Frequency      string `bun:"frequency"`
	IsActive       bool   `bun:"is_active,default:true"`
}

type allergyRow struct {
	bun.BaseModel `bun:"table:allergies"`

	AllergyID int64  `bun:"allergy_id,pk,autoincrement"`
	UserID    int64  `bun:"user_id,notnull"`
	Allergen  string `bun:"allergen,notnull"`
	Severity  string `bun:"severity"`
	Reaction  string `bun:"reaction"`
}

type accountRow struct {
	bun.BaseModel `bun:"table:financial_accounts"`

	AccountID     int64   `bun:"account_id,pk,autoincrement"`
	UserID        int64   `bun:"user_id,notnull"`
	AccountType   string  `bun:"account_type,notnull,default:'main'"`
	Balance       float64 `bun:"balance,default:0"`
	Currency      string  `bun:"currency,default:'ZAR'"`
	MonthlyIncome float64 `bun:"monthly_income"`
	MonthlyBudget float64 `bun:"monthly_budget"`
}

type chatMessageRow struct {
	bun.BaseModel `bun:"table:chat_history"`

	ChatID    int64     `bun:"chat_id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	AgentType string    `bun:"agent_type,notnull"`
	SessionID string    `bun:"session_id"`
	Role      string    `bun:"role,notnull"`
	Content   string    `bun:"content,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// GetUserContextSnapshot assembles the per-request profile snapshot from the
// user, medical, and financial tables. Each read is independent; the snapshot
// is consistent enough for prompt building, not a serialized view.
func (s *PostgresStore) GetUserContextSnapshot(ctx context.Context, userID int64) (*Snapshot, error) {
	var user userRow
	err := s.db.NewSelect().Model(&user).Where("user_id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}

	snap := &Snapshot{
		UserID:      user.UserID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Phone:       user.Phone,
		DateOfBirth: user.DateOfBirth,
		Gender:      user.Gender,
		City:        user.City,
		Province:    user.Province,
		Country:     "South Africa",
		Preferences: DefaultPreferences(),
	}

	var aid medicalAidRow
	err = s.db.NewSelect().Model(&aid).
		Where("user_id = ?", userID).
		Where("is_active = TRUE").
		Limit(1).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select medical aid: %w", err)
	}
	if err == nil {
		snap.MedicalAid = &MedicalAid{
			SchemeName:       aid.SchemeName,
			PlanType:         aid.PlanType,
			MembershipNumber: aid.MembershipNumber,
		}
	}

	var conditions []conditionRow
	if err := s.db.NewSelect().Model(&conditions).
		Where("user_id = ?", userID).
		Order("history_id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("select medical history: %w", err)
	}
	for _, c := range conditions {
		snap.Conditions = append(snap.Conditions, Condition{Name: c.ConditionName, Status: c.Status})
	}

	var medications []medicationRow
	if err := s.db.NewSelect().Model(&medications).
		Where("user_id = ?", userID).
		Where("is_active = TRUE").
		Order("medication_id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("select medications: %w", err)
	}
	for _, m := range medications {
		snap.Medications = append(snap.Medications, Medication{Name: m.MedicationName, Dosage: m.Dosage})
	}

	var allergies []allergyRow
	if err := s.db.NewSelect().Model(&allergies).
		Where("user_id = ?", userID).
		Order("allergy_id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("select allergies: %w", err)
	}
	for _, a := range allergies {
		snap.Allergies = append(snap.Allergies, Allergy{Allergen: a.Allergen, Severity: a.Severity})
	}

	var accounts []accountRow
	if err := s.db.NewSelect().Model(&accounts).
		Where("user_id = ?", userID).
		Order("account_id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("select financial accounts: %w", err)
	}
	for _, a := range accounts {
		snap.Accounts = append(snap.Accounts, Account{
			Currency:      a.Currency,
			MonthlyIncome: a.MonthlyIncome,
			MonthlyBudget: a.MonthlyBudget,
			Balance:       a.Balance,
		})
	}

	return snap, nil
}

func (s *PostgresStore) AppendChatMessage(ctx context.Context, msg *ChatMessage) error {
	if msg == nil {
		return ErrNilMessage
	}
	row := &chatMessageRow{
		UserID:    msg.UserID,
		AgentType: msg.AgentType,
		SessionID: msg.SessionID,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now().UTC()
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// GetChatHistory returns the most recent limit messages in chronological
// order. An empty agentType matches every agent.
func (s *PostgresStore) GetChatHistory(ctx context.Context, userID int64, agentType string, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	q := s.db.NewSelect().Model((*chatMessageRow)(nil)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit)
	if strings.TrimSpace(agentType) != "" {
		q = q.Where("agent_type = ?", agentType)
	}

	var rows []chatMessageRow
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("select chat history: %w", err)
	}

	history := make([]ChatMessage, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		history = append(history, ChatMessage{
			UserID:    r.UserID,
			AgentType: r.AgentType,
			SessionID: r.SessionID,
			Role:      r.Role,
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
		})
	}
	return history, nil
}
