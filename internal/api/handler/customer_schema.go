package handler

import (
	"time"

	"github.com/weblarek/commerce-system/internal/core/domain"
)

type listCustomersQuery struct {
	Page                 int      `query:"page"`
	Limit                int      `query:"limit"`
	SortField            string   `query:"sortField"`
	SortOrder            string   `query:"sortOrder"`
	RegistrationDateFrom string   `query:"registrationDateFrom"`
	RegistrationDateTo   string   `query:"registrationDateTo"`
	LastOrderDateFrom    string   `query:"lastOrderDateFrom"`
	LastOrderDateTo      string   `query:"lastOrderDateTo"`
	TotalAmountFrom      *float64 `query:"totalAmountFrom"`
	TotalAmountTo        *float64 `query:"totalAmountTo"`
	OrderCountFrom       *int64   `query:"orderCountFrom"`
	OrderCountTo         *int64   `query:"orderCountTo"`
	Search               string   `query:"search"`
}

type customerStatsResponse struct {
	TotalAmount   float64    `json:"totalAmount"`
	OrderCount    int64      `json:"orderCount"`
	LastOrderID   string     `json:"lastOrderId,omitempty"`
	LastOrderDate *time.Time `json:"lastOrderDate,omitempty"`
}

type customerResponse struct {
	domain.PublicUser
	Stats customerStatsResponse `json:"stats"`
}

type listCustomersResponse struct {
	Success    bool               `json:"success"`
	Items      []customerResponse `json:"customers"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}

type getCustomerResponse struct {
	Success  bool             `json:"success"`
	Customer customerResponse `json:"customer"`
}

type updateRolesRequest struct {
	Roles []domain.Role `json:"roles" validate:"required,min=1,dive,oneof=customer admin"`
}
