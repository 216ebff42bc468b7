// Package jwt provides RS256 JSON Web Token signing and validation for the
// Gala API.
//
// Tokens are signed with an RSA private key and validated against the
// matching public key, so read-only services can verify tokens without
// holding signing material.
//
// # Signing
//
// Build a service from PEM key files and sign claims:
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "./keys/private.pem",
//	    PublicKeyPath:  "./keys/public.pem",
//	    Issuer:         "gala.festo.app",
//	    ExpirationMins: 15,
//	})
//
//	token, err := service.Sign(jwt.Claims{
//	    Subject: user.ID,
//	    UserID:  user.ID,
//	    Email:   user.Email,
//	    Role:    string(user.Role),
//	})
//
// Sign stamps the issuer, issued-at, not-before, and expiry claims itself;
// callers only supply identity claims.
//
// # Validation
//
// Validate checks the signature, the time-based claims, and the issuer:
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // invalid, expired, or foreign token
//	}
//	userID := claims.UserID
//
// # Keys
//
// GenerateKeyPair writes a fresh 2048-bit RSA key pair to disk for local
// development. Production keys come from the deployment environment.
package jwt
