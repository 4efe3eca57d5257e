package domain

import "time"

type User struct {
	ID                 string
	Name               string
	Email              string
	LoginAccountNumber string
	PasswordHash       string
	PinHash            string
	CreatedAt          time.Time
}
