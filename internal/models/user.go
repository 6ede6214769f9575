package models

import "time"

// User carries the minimal account state this core needs: the code the
// user shares, and the code they redeemed at signup (the referral-class
// attribution). Profile, auth and session data live elsewhere.
type User struct {
	ID               string    `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	ReferralCode     *string   `db:"referral_code" json:"referralCode,omitempty"`
	ReferralCodeUsed *string   `db:"referral_code_used" json:"referralCodeUsed,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"-"`
}

// DiscountClass returns the pricing class this user's purchases fall in.
func (u *User) DiscountClass() DiscountClass {
	if u.ReferralCodeUsed != nil && *u.ReferralCodeUsed != "" {
		return ClassReferral
	}
	return ClassRegular
}
