package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/avGenie/go-order-system/internal/app/config"
	"github.com/avGenie/go-order-system/internal/app/entity"
	"github.com/avGenie/go-order-system/internal/app/model"
)

const (
	lookupSuffix = `/json/`
	retryDelay   = 100 * time.Millisecond
	maxRetries   = 1
)

var (
	ErrPostalCodeNotFound = errors.New("postal code not found")
	ErrAddressUnavailable = errors.New("address lookup is unavailable")
)

type AddressResolver interface {
	ResolveAddress(ctx context.Context, postalCode string) (entity.Address, error)
}

// NewResolver builds the ViaCEP client. When the lookup is optional an
// unavailable service yields an empty address instead of an error.
func NewResolver(config config.Config) AddressResolver {
	client := New(config)
	if config.PostalLookupRequired {
		return client
	}

	return Lenient{resolver: client}
}

type Client struct {
	client http.Client

	requestAddress string
}

func New(config config.Config) *Client {
	timeout := config.PostalLookupTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Client{
		client: http.Client{
			Timeout: timeout,
		},
		requestAddress: config.PostalLookupAddr,
	}
}

// ResolveAddress looks the postal code up, retrying once on timeouts and 5xx answers.
func (c *Client) ResolveAddress(ctx context.Context, postalCode string) (entity.Address, error) {
	var address entity.Address
	backoff := retry.WithMaxRetries(maxRetries, retry.NewConstant(retryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		address, err = c.makeRequest(ctx, postalCode)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrPostalCodeNotFound) || errors.Is(err, ErrAddressUnavailable) {
			return entity.Address{}, err
		}
		return entity.Address{}, fmt.Errorf("%w: %s", ErrAddressUnavailable, err.Error())
	}

	return address, nil
}

func (c *Client) makeRequest(ctx context.Context, postalCode string) (entity.Address, error) {
	url := fmt.Sprintf("%s%s%s", c.requestAddress, postalCode, lookupSuffix)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return entity.Address{}, fmt.Errorf("%w: cannot create request: %s", ErrAddressUnavailable, err.Error())
	}

	res, err := c.client.Do(req)
	if err != nil {
		zap.L().Warn("postal lookup request failed", zap.String("cep", postalCode), zap.Error(err))
		return entity.Address{}, retry.RetryableError(fmt.Errorf("%w: %s", ErrAddressUnavailable, err.Error()))
	}
	defer res.Body.Close()

	return processResponse(res)
}

func processResponse(res *http.Response) (entity.Address, error) {
	status := res.StatusCode
	if status >= http.StatusInternalServerError {
		return entity.Address{}, retry.RetryableError(
			fmt.Errorf("%w: unexpected status %d", ErrAddressUnavailable, status))
	}

	if status == http.StatusBadRequest || status == http.StatusNotFound {
		return entity.Address{}, ErrPostalCodeNotFound
	}

	if status != http.StatusOK {
		return entity.Address{}, fmt.Errorf("%w: unexpected status %d", ErrAddressUnavailable, status)
	}

	var response model.PostalAddressResponse
	err := json.NewDecoder(res.Body).Decode(&response)
	if err != nil {
		return entity.Address{}, fmt.Errorf("%w: error while decoding response: %s", ErrAddressUnavailable, err.Error())
	}

	if response.Error {
		return entity.Address{}, ErrPostalCodeNotFound
	}

	return entity.Address{
		Street: response.Street,
		City:   response.City,
		State:  response.State,
	}, nil
}

// Lenient degrades an unavailable lookup to an empty address.
type Lenient struct {
	resolver AddressResolver
}

func (l Lenient) ResolveAddress(ctx context.Context, postalCode string) (entity.Address, error) {
	address, err := l.resolver.ResolveAddress(ctx, postalCode)
	if err != nil {
		if errors.Is(err, ErrAddressUnavailable) {
			zap.L().Warn("postal lookup is unavailable, storing order without address enrichment",
				zap.String("cep", postalCode), zap.Error(err))
			return entity.Address{}, nil
		}
		return entity.Address{}, err
	}

	return address, nil
}
