package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"easyapply-engine/internal/config"
	"easyapply-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
	Set    func(account, password string) error
}

type setIMAPPasswordReq struct {
	Password string `json:"password"`
}

func (h SecretsHandler) SetIMAPPassword(w http.ResponseWriter, r *http.Request) {
	var req setIMAPPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "invalid json")
		return
	}

	set := h.Set
	if set == nil {
		set = secrets.SetIMAPPassword
	}
	cfg := h.CfgVal.Load().(config.Config)
	if err := set(secrets.IMAPKeyringAccount(cfg), req.Password); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_input", "failed to store password: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
