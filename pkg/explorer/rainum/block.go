package rainum

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/util"
)

func (r *rainum) GetBlockHeight(ctx context.Context) (int, error) {
	url := fmt.Sprintf("%s/blocks/tip/height", r.apiURL)
	status, resp, err := util.NewHTTPRequest(ctx, "GET", url, "", nil)
	if err != nil {
		return 0, fmt.Errorf("error on retrieving block height: %s", err)
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf(resp)
	}

	return strconv.Atoi(strings.TrimSpace(resp))
}
