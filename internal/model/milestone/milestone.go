package milestone

import (
	"time"

	"github.com/talx-hub/eisc-ledger/internal/model"
)

const (
	KeyRegistration = "registration"
	KeyPortfolio    = "portfolio"
	KeyIdentity     = "identity"
	KeyFirstSale    = "first_sale"
)

type Milestone struct {
	CompletedAt time.Time     `json:"completed_at"`
	Key         string        `json:"key"`
	Label       string        `json:"label"`
	Credits     model.Credits `json:"credits"`
	Completed   bool          `json:"completed"`
}
