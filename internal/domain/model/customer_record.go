package model

import "time"

// CustomerRecord stores the processor customer of a user in one processor
// mode. The wallet (default card and card list) is kept encrypted.
type CustomerRecord struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID              string    `gorm:"column:user_id;not null;size:100;uniqueIndex:idx_customer_records_user_mode" json:"user_id"`
	Mode                string    `gorm:"not null;size:10;uniqueIndex:idx_customer_records_user_mode" json:"mode"`
	ProcessorCustomerID string    `gorm:"column:processor_customer_id;size:100;index" json:"processor_customer_id"`
	EncryptedWallet     string    `gorm:"type:text" json:"-"`
	WalletIV            string    `gorm:"column:wallet_iv;size:64" json:"-"`
	CreatedAt           time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt           time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (CustomerRecord) TableName() string {
	return "customer_records"
}
