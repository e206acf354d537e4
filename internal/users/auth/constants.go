// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// MinPasswordLength mirrors the provider's default password policy.
	MinPasswordLength = 6

	// MaxDisplayNameLength bounds the name stored in user metadata.
	MaxDisplayNameLength = 100

	// providerTimeout bounds every call to the auth provider.
	providerTimeout = 10 * time.Second

	// maxProviderBody caps how much of a provider response is read.
	maxProviderBody = 1 << 20
)
