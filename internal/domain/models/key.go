package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/turtacn/usersvc/pkg/constants"
	"github.com/turtacn/usersvc/pkg/errors"
)

// SigningKey is the persisted token signing key. Only the KMS-encrypted form of the key
// material is ever stored; the plaintext exists in memory for the duration of one call.
type SigningKey struct {
	// ID is the fixed configured identifier of the key record.
	ID string `gorm:"primaryKey;size:128" json:"id"`
	// EncryptedMaterial is the KMS ciphertext of the base64-encoded raw key.
	EncryptedMaterial []byte `gorm:"not null" json:"encrypted_material"`
	// CreatedAt is the timestamp when the key record was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for the SigningKey model.
func (SigningKey) TableName() string {
	return "signing_keys"
}

// AlgorithmSpec describes how to generate and apply a key for one signing algorithm.
type AlgorithmSpec struct {
	Name    constants.SigningAlgorithm
	KeySize int
	Method  jwt.SigningMethod
}

var algorithmSpecs = map[string]AlgorithmSpec{
	string(constants.AlgorithmHMACSHA256): {constants.AlgorithmHMACSHA256, 32, jwt.SigningMethodHS256},
	string(constants.AlgorithmHMACSHA384): {constants.AlgorithmHMACSHA384, 48, jwt.SigningMethodHS384},
	string(constants.AlgorithmHMACSHA512): {constants.AlgorithmHMACSHA512, 64, jwt.SigningMethodHS512},
	// JCA names, as found in configuration carried over from JVM deployments.
	"HmacSHA256": {constants.AlgorithmHMACSHA256, 32, jwt.SigningMethodHS256},
	"HmacSHA384": {constants.AlgorithmHMACSHA384, 48, jwt.SigningMethodHS384},
	"HmacSHA512": {constants.AlgorithmHMACSHA512, 64, jwt.SigningMethodHS512},
}

// LookupAlgorithm resolves a configured algorithm name. Unknown names fail with InvalidAlgorithm.
func LookupAlgorithm(name string) (AlgorithmSpec, error) {
	spec, ok := algorithmSpecs[name]
	if !ok {
		return AlgorithmSpec{}, errors.ErrInvalidAlgorithm(name)
	}
	return spec, nil
}
