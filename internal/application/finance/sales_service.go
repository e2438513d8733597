package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	invapp "github.com/kushukushu/backend/internal/application/inventory"
	"github.com/kushukushu/backend/internal/domain/audit"
	"github.com/kushukushu/backend/internal/domain/finance"
	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/kushukushu/backend/internal/domain/workflow"
)

// defaultLoanTerm is how long a loan-sale customer has to pay
const defaultLoanTerm = 30 * 24 * time.Hour

// SalesService records point-of-sale transactions. Each sale deducts the
// sold quantities from branch stock and, for loan sales, opens a loan and
// extends the customer's credit, all in one transaction.
type SalesService struct {
	scope     TransactionScope
	salesRepo finance.SalesTransactionRepository
	engine    *invapp.Engine
}

// NewSalesService creates a new SalesService
func NewSalesService(scope TransactionScope, salesRepo finance.SalesTransactionRepository, engine *invapp.Engine) *SalesService {
	return &SalesService{
		scope:     scope,
		salesRepo: salesRepo,
		engine:    engine,
	}
}

// CreateSale records a sale. Insufficient stock on any line fails the
// whole sale; a loan sale past the customer's credit limit fails too.
func (s *SalesService) CreateSale(ctx context.Context, req CreateSaleRequest, actor workflow.Actor) (*SaleResponse, error) {
	branch, err := valueobject.NewBranch(req.BranchID)
	if err != nil {
		return nil, err
	}

	items := make(finance.SaleItems, len(req.Items))
	for i, line := range req.Items {
		items[i] = finance.SaleItem{
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Quantity.Mul(line.UnitPrice),
		}
	}

	sale, err := finance.NewSalesTransaction(finance.NewSalesTransactionParams{
		BranchID:     branch,
		SoldBy:       actor.Name,
		PaymentType:  finance.PaymentType(req.PaymentType),
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Items:        items,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}

	var loanID *uuid.UUID
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range sale.Items {
			if _, err := s.engine.Move(ctx, repos.ItemRepo(), repos.LedgerRepo(),
				line.ProductName, branch,
				inventory.TransactionTypeDeduct, line.Quantity,
				sale.TransactionNumber, actor.Name); err != nil {
				return err
			}
		}

		if err := repos.SalesRepo().Save(ctx, sale); err != nil {
			return err
		}

		if sale.PaymentType == finance.PaymentTypeLoan {
			customer, err := repos.CustomerRepo().FindByID(ctx, *sale.CustomerID)
			if err != nil {
				return err
			}
			if err := customer.ExtendCredit(sale.TotalAmount); err != nil {
				return err
			}
			if err := repos.CustomerRepo().SaveWithLock(ctx, customer); err != nil {
				return err
			}

			dueDate := time.Now().Add(defaultLoanTerm)
			if req.DueDate != nil {
				dueDate = *req.DueDate
			}
			saleID := sale.ID
			loan, err := finance.NewLoan(customer.ID, customer.Name, branch, &saleID, sale.TotalAmount, dueDate)
			if err != nil {
				return err
			}
			if err := repos.LoanRepo().Save(ctx, loan); err != nil {
				return err
			}
			loanID = &loan.ID
		}

		if repos.ActivityRepo() != nil {
			return repos.ActivityRepo().Append(ctx, audit.NewActivity(
				actor.Name, string(actor.Role), "sale_recorded",
				string(sale.PaymentType)+" sale of "+sale.TotalAmount.String(),
				branch, sale.TransactionNumber))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale, loanID)
	return &response, nil
}

// GetByID retrieves one sale
func (s *SalesService) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.salesRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale, nil)
	return &response, nil
}

// ListByBranchAndDate retrieves the sales feeding one reconciliation bucket
func (s *SalesService) ListByBranchAndDate(ctx context.Context, branchID, date string) ([]SaleResponse, error) {
	branch, err := valueobject.NewBranch(branchID)
	if err != nil {
		return nil, err
	}
	sales, err := s.salesRepo.FindByBranchAndDate(ctx, branch, date)
	if err != nil {
		return nil, err
	}
	responses := make([]SaleResponse, len(sales))
	for i, sale := range sales {
		responses[i] = ToSaleResponse(sale, nil)
	}
	return responses, nil
}

// List retrieves recent sales
func (s *SalesService) List(ctx context.Context, page, pageSize int) ([]SaleResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	sales, err := s.salesRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]SaleResponse, len(sales))
	for i, sale := range sales {
		responses[i] = ToSaleResponse(sale, nil)
	}
	return responses, nil
}
