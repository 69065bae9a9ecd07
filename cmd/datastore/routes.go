package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	inventory "github.com/warungos/datastore/internal/inventory/domain"
	invcommand "github.com/warungos/datastore/internal/inventory/usecase/command"
	payment "github.com/warungos/datastore/internal/payment/domain"
	"github.com/warungos/datastore/internal/sales"
	salescommand "github.com/warungos/datastore/internal/sales/usecase/command"
	"github.com/warungos/datastore/pkg/database"
)

// opsHandler exposes the back-office commands over HTTP so stock intake and
// sale settlement can be driven without a full storefront deployment.
type opsHandler struct {
	sales   *sales.CommandHandlers
	restock *invcommand.RestockProductHandler
	adjust  *invcommand.AdjustStockHandler
}

func (h *opsHandler) registerRoutes(router *mux.Router) {
	router.HandleFunc("/sales/{id}/finalize", h.finalizeSale).Methods("POST")
	router.HandleFunc("/sales/{id}/cancel", h.cancelSale).Methods("POST")
	router.HandleFunc("/products/{id}/restock", h.restockProduct).Methods("POST")
	router.HandleFunc("/products/{id}/adjust", h.adjustStock).Methods("POST")
}

func (h *opsHandler) finalizeSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Method      string  `json:"method"`
		Provider    string  `json:"provider"`
		ProviderRef *string `json:"provider_ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sale, err := h.sales.FinalizeHandler.Handle(r.Context(), salescommand.FinalizeSaleCommand{
		SaleID:      id,
		Method:      payment.PaymentMethod(body.Method),
		Provider:    payment.PaymentProvider(body.Provider),
		ProviderRef: body.ProviderRef,
	})
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func (h *opsHandler) cancelSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sale, err := h.sales.CancelHandler.Handle(r.Context(), salescommand.CancelSaleCommand{SaleID: id})
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func (h *opsHandler) restockProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Qty  int64   `json:"qty"`
		Note *string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := h.restock.Handle(r.Context(), invcommand.RestockProductCommand{
		ProductID: id,
		Qty:       body.Qty,
		Note:      body.Note,
	})
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *opsHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		QtyDelta int64   `json:"qty_delta"`
		Note     *string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := h.adjust.Handle(r.Context(), invcommand.AdjustStockCommand{
		ProductID: id,
		QtyDelta:  body.QtyDelta,
		Note:      body.Note,
	})
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func writeCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrValidation), errors.Is(err, inventory.ErrInsufficientStock):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
