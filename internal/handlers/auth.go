// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/session"
	"inkwell/internal/store"
)

// loginRequest is the body of POST /api/auth/login. Code is the TOTP code,
// required only when the second factor is enabled.
type loginRequest struct {
	Password string `json:"password"`
	Code     string `json:"code"`
}

// Login verifies the admin password (and TOTP code when enabled) and
// creates a server-side session. The single shared secret of the original
// client-side gate is replaced by a bcrypt check plus an opaque session
// token with TTL.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := bcrypt.CompareHashAndPassword(a.adminHash, []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	enabled, err := a.totpEnabled()
	if err != nil {
		slog.Error("totp status lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if enabled {
		secret, ok, err := a.settings.Get(store.SettingTOTPSecret)
		if err != nil || !ok {
			slog.Error("totp secret lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !totp.Validate(req.Code, secret) {
			writeError(w, http.StatusUnauthorized, "Invalid verification code")
			return
		}
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{TwoFAVerified: enabled}); err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout destroys the current session.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// TwoFASetup generates a new TOTP secret and returns the provisioning QR
// code as base64 PNG. The second factor stays disabled until the admin
// confirms a valid code via TwoFAConfirm.
func (a *API) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "inkwell",
		AccountName: "admin",
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := a.settings.Set(store.SettingTOTPSecret, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret": key.Secret(),
		"qr":     base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// twoFAConfirmRequest is the body of POST /api/auth/2fa/confirm.
type twoFAConfirmRequest struct {
	Code string `json:"code"`
}

// TwoFAConfirm validates the first TOTP code and enables the second factor.
func (a *API) TwoFAConfirm(w http.ResponseWriter, r *http.Request) {
	var req twoFAConfirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	secret, ok, err := a.settings.Get(store.SettingTOTPSecret)
	if err != nil {
		slog.Error("totp secret lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "Two-factor setup has not been started")
		return
	}

	if !totp.Validate(req.Code, secret) {
		writeError(w, http.StatusUnauthorized, "Invalid verification code")
		return
	}

	if err := a.settings.Set(store.SettingTOTPEnabled, "true"); err != nil {
		slog.Error("enable totp failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// TwoFADisable turns off the second factor and discards the secret.
func (a *API) TwoFADisable(w http.ResponseWriter, r *http.Request) {
	if err := a.settings.Delete(store.SettingTOTPEnabled); err != nil {
		slog.Error("disable totp failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := a.settings.Delete(store.SettingTOTPSecret); err != nil {
		slog.Error("discard totp secret failed", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// totpEnabled reports whether the TOTP second factor is active.
func (a *API) totpEnabled() (bool, error) {
	value, ok, err := a.settings.Get(store.SettingTOTPEnabled)
	if err != nil {
		return false, err
	}
	return ok && value == "true", nil
}
