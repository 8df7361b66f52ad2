package renex

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/renexcli/internal/domain"
)

// priceSignificantDigits is the precision of the venue's price encoding.
const priceSignificantDigits = 3

// parsePositive parses s as a decimal greater than zero.
func parsePositive(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a decimal", ErrSDKOperation, field, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s must be greater than zero", ErrSDKOperation, field)
	}
	return d, nil
}

// truncateSignificant rounds a positive d down to digits significant figures.
func truncateSignificant(d decimal.Decimal, digits int) decimal.Decimal {
	coefficientDigits := len(d.Coefficient().String())
	mostSignificant := coefficientDigits - 1 + int(d.Exponent())
	places := digits - 1 - mostSignificant
	return d.RoundFloor(int32(places))
}

// prepareOrder validates price and volume and, when normalize is set, rounds them down
// to what the venue can represent.
func prepareOrder(order domain.OrderRequest, normalize bool) (domain.OrderRequest, error) {
	if !order.Side.IsValid() {
		return order, fmt.Errorf("%w: invalid side %q", ErrSDKOperation, order.Side)
	}

	pair, err := domain.ParsePair(order.Symbol)
	if err != nil {
		return order, fmt.Errorf("%w: %v", ErrSDKOperation, err)
	}

	price, err := parsePositive("price", order.Price)
	if err != nil {
		return order, err
	}
	volume, err := parsePositive("volume", order.Volume)
	if err != nil {
		return order, err
	}

	if !normalize {
		return order, nil
	}

	token, err := domain.LookupTradableToken(pair.From)
	if err != nil {
		return order, err
	}

	price = truncateSignificant(price, priceSignificantDigits)
	volume = volume.RoundFloor(token.Decimals)
	if !volume.IsPositive() {
		return order, fmt.Errorf("%w: volume is below the smallest %s unit", ErrSDKOperation, token.Code)
	}

	order.Price = price.String()
	order.Volume = volume.String()
	return order, nil
}
