package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Email         string          `gorm:"unique;not null" json:"email"`
	Password      string          `gorm:"not null" json:"-"`
	Phone         string          `json:"phone"`
	Role          Role            `gorm:"type:VARCHAR(10);default:'user'" json:"role"`
	ReferralCode  string          `gorm:"uniqueIndex;not null" json:"referral_code"`
	ReferredBy    *string         `json:"referred_by"` // referral code supplied at signup, immutable
	CreditBalance decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"credit_balance"`
	Cart          Cart            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders        []Order         `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewUser builds a user ready to persist: hashed password and a fresh
// referral code. Credential hashing lives here rather than in a save hook so
// the signup flow is the only writer.
func NewUser(name, email, password, phone string, referredBy *string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &User{
		Name:          name,
		Email:         strings.ToLower(strings.TrimSpace(email)),
		Password:      string(hash),
		Phone:         phone,
		Role:          RoleUser,
		ReferralCode:  GenerateReferralCode(),
		ReferredBy:    referredBy,
		CreditBalance: decimal.Zero,
	}, nil
}

// GenerateReferralCode returns a short shareable code like "REF-9F2C41AB".
func GenerateReferralCode() string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "REF-" + frag
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
