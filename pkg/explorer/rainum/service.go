package rainum

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/explorer"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/util"
)

type rainum struct {
	apiURL string
}

// NewService returns a new rainum node client as an explorer.Service interface
func NewService(apiURL string) (explorer.Service, error) {
	service := &rainum{apiURL}

	if err := service.healthCheck(); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	return service, nil
}

func (r *rainum) healthCheck() error {
	url := fmt.Sprintf("%s/blocks/tip/height", r.apiURL)
	status, resp, err := util.NewHTTPRequest(context.Background(), "GET", url, "", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf(resp)
	}
	return nil
}
