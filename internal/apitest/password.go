// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apitest

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Cheap argon2id parameters; the fake server only needs realistic behaviour.
const (
	hashTime    = 1
	hashMemory  = 1024
	hashThreads = 1
	hashKeyLen  = 32
	hashSaltLen = 16
)

// credential is a salted argon2id hash of an account password.
type credential struct {
	salt []byte
	hash []byte
}

func newCredential(password string) credential {
	salt := make([]byte, hashSaltLen)
	_, _ = rand.Read(salt)
	return credential{
		salt: salt,
		hash: argon2.IDKey([]byte(password), salt, hashTime, hashMemory, hashThreads, hashKeyLen),
	}
}

func (c credential) matches(password string) bool {
	if len(c.salt) == 0 {
		return false
	}
	got := argon2.IDKey([]byte(password), c.salt, hashTime, hashMemory, hashThreads, hashKeyLen)
	return subtle.ConstantTimeCompare(got, c.hash) == 1
}
