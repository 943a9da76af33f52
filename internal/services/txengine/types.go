package txengine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/domain"
)

type DepositRequest struct {
	WalletID          int64
	Amount            decimal.Decimal
	Source            string
	OppositePartyType domain.OppositePartyType
}

type WithdrawRequest struct {
	WalletID          int64
	Amount            decimal.Decimal
	Destination       string
	OppositePartyType domain.OppositePartyType
}

type ApprovalRequest struct {
	TransactionID int64
	Status        domain.TransactionStatus
}

// validateMovement returns the normalized opposite party type.
func validateMovement(walletID int64, amount decimal.Decimal, party string, partyType domain.OppositePartyType) (domain.OppositePartyType, error) {
	if walletID <= 0 {
		return "", fmt.Errorf("%w: wallet id is required", domain.ErrInvalidArgument)
	}

	err := domain.ValidateAmount(amount)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(party) == "" {
		return "", fmt.Errorf("%w: opposite party is required", domain.ErrInvalidArgument)
	}

	return domain.ParseOppositePartyType(string(partyType))
}

func walletResource(id int64) string {
	return "wallet:" + strconv.FormatInt(id, 10)
}

func transactionResource(id int64) string {
	return "transaction:" + strconv.FormatInt(id, 10)
}
