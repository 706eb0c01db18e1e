package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/logging"
	"github.com/dmitrijs2005/protodesk/internal/validation"
)

// AdminService covers account administration: listing accounts, approving
// self-registered users and creating accounts and departments. Callers gate
// it by role; the backend enforces the same rule.
type AdminService struct {
	client client.Client
	logger logging.Logger
}

func NewAdminService(c client.Client, logger logging.Logger) *AdminService {
	return &AdminService{client: c, logger: logger}
}

// Accounts lists every account, fuzzy-filtered by query.
func (s *AdminService) Accounts(ctx context.Context, query string) ([]models.Account, error) {
	list, err := s.client.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return rank(query, list, accountKey), nil
}

// Pending lists accounts still waiting for approval.
func (s *AdminService) Pending(ctx context.Context) ([]models.Account, error) {
	list, err := s.client.PendingAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending accounts: %w", err)
	}
	out := make([]models.Account, 0, len(list))
	for _, a := range list {
		if a.Pending() {
			out = append(out, a)
		}
	}
	return out, nil
}

// Approve approves account id and returns the backend's confirmation.
func (s *AdminService) Approve(ctx context.Context, id int64) (string, error) {
	msg, err := s.client.ApproveAccount(ctx, id)
	if err != nil {
		return "", fmt.Errorf("approve account %d: %w", id, err)
	}
	s.logger.Info(ctx, "account approved", "id", id)
	if msg == "" {
		msg = fmt.Sprintf("User #%d approved.", id)
	}
	return msg, nil
}

func (s *AdminService) CreateAccount(ctx context.Context, acc models.NewAccount) (models.Account, error) {
	acc.Username = strings.TrimSpace(acc.Username)
	acc.Email = strings.TrimSpace(acc.Email)
	acc.Role = strings.TrimSpace(acc.Role)
	if err := validation.Struct(acc); err != nil {
		return models.Account{}, err
	}

	out, err := s.client.CreateAccount(ctx, acc)
	if err != nil {
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}
	s.logger.Info(ctx, "account created", "id", out.ID, "role", acc.Role)
	return out, nil
}

func (s *AdminService) CreateDepartment(ctx context.Context, dep models.NewDepartment) (models.Department, error) {
	dep.Name = strings.TrimSpace(dep.Name)
	if err := validation.Struct(dep); err != nil {
		return models.Department{}, err
	}

	out, err := s.client.CreateDepartment(ctx, dep)
	if err != nil {
		return models.Department{}, fmt.Errorf("create department: %w", err)
	}
	s.logger.Info(ctx, "department created", "id", out.ID, "name", out.Name)
	return out, nil
}

func accountKey(a models.Account) string {
	return strings.Join([]string{a.Username, a.FullName, a.Email}, " ")
}
