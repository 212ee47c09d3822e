package services

import (
	portsrepo "github.com/branchpay/teller_backend/internal/core/ports/repositories"
	portssvc "github.com/branchpay/teller_backend/internal/core/ports/services"
	"github.com/branchpay/teller_backend/internal/platform/config"
)

// NewServiceContainer wires the application services with their repositories.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Payment:  NewPaymentService(repos, cfg),
		Drawer:   NewDrawerService(repos, cfg),
		Recovery: NewRecoveryService(repos, cfg),
	}
}
