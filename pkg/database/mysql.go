package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/environments"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/logger"
)

func NewMySQLDB(cfg environments.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("Connected to MySQL database")
	return db, nil
}

func RunMigrations(db *sqlx.DB) error {
	schemas := []string{
		`
		CREATE TABLE IF NOT EXISTS whatsapp_instances (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			name VARCHAR(100) NOT NULL UNIQUE,
			phone_number VARCHAR(20),
			country_code VARCHAR(5) NOT NULL DEFAULT '55',
			webhook_token VARCHAR(64) NOT NULL UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_instances_user_id (user_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
		`,
		`
		CREATE TABLE IF NOT EXISTS message_templates (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			order_status VARCHAR(50) NOT NULL,
			sequence INT NOT NULL DEFAULT 0,
			content TEXT NOT NULL,
			delay_minutes INT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_templates_user_status (user_id, order_status)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
		`,
		`
		CREATE TABLE IF NOT EXISTS message_queue (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			instance_id BIGINT,
			template_id BIGINT NOT NULL,
			phone VARCHAR(30) NOT NULL,
			message TEXT NOT NULL,
			scheduled_for DATETIME NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			sent_at DATETIME,
			error TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_queue_status (status),
			INDEX idx_queue_instance_due (instance_id, status, scheduled_for),
			INDEX idx_queue_created_at (created_at),
			CONSTRAINT fk_queue_instance FOREIGN KEY (instance_id)
				REFERENCES whatsapp_instances (id) ON DELETE SET NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
		`,
	}

	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	logger.Infof("Database migrations completed")

	return nil
}

func SeedTestData(db *sqlx.DB) error {
	var count int

	err := db.Get(&count, "SELECT COUNT(*) FROM whatsapp_instances")
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Infof("Database already has %d instances, skipping seed", count)
		return nil
	}

	result, err := db.Exec(
		"INSERT INTO whatsapp_instances (user_id, name, country_code, webhook_token) VALUES (1, 'loja-demo', '55', 'demo-webhook-token')",
	)
	if err != nil {
		return fmt.Errorf("failed to seed instance: %w", err)
	}

	if _, err := result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get seeded instance id: %w", err)
	}

	testTemplates := []struct {
		orderStatus  string
		sequence     int
		content      string
		delayMinutes int
	}{
		{"processing", 1, "Ola {{nome_cliente}}! Recebemos seu pedido {{numero_pedido}} e ja estamos preparando tudo.", 0},
		{"processing", 2, "{{nome_cliente}}, seu pedido {{numero_pedido}} no valor de R$ {{valor_pedido}} esta em separacao.", 60},
		{"completed", 1, "Pedido {{numero_pedido}} concluido! Obrigado pela compra, {{nome_cliente}}.", 0},
		{"cancelled", 1, "{{nome_cliente}}, seu pedido {{numero_pedido}} foi cancelado. Fale com a gente se precisar de ajuda.", 0},
	}

	for _, tpl := range testTemplates {
		_, err := db.Exec(
			"INSERT INTO message_templates (user_id, order_status, sequence, content, delay_minutes) VALUES (1, ?, ?, ?, ?)",
			tpl.orderStatus, tpl.sequence, tpl.content, tpl.delayMinutes,
		)
		if err != nil {
			return fmt.Errorf("failed to seed test data: %w", err)
		}
	}

	logger.Infof("Seeded 1 instance and %d templates", len(testTemplates))
	return nil
}
