package domain

import (
	"fmt"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

func init() {
	// decimais saem como números JSON, não strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Snapshot é a linha da tabela stocks: uma ação em um pregão.
type Snapshot struct {
	ID                int64               `json:"id"`
	Code              int64               `json:"code"`
	StockName         null.String         `json:"stock_name"`
	LatestPrice       decimal.NullDecimal `json:"latest_price"`
	LatestChangePct   decimal.NullDecimal `json:"latest_change_pct"`
	ListingBoard      null.String         `json:"listing_board"`
	AuctionChangePct  decimal.NullDecimal `json:"auction_change_pct"`
	PETTM             decimal.NullDecimal `json:"pe_ttm"`
	PE                decimal.NullDecimal `json:"pe"`
	DDELargeOrder     decimal.NullDecimal `json:"dde_large_order"`
	VolumeRatio       decimal.NullDecimal `json:"volume_ratio"`
	IntervalChange13d decimal.NullDecimal `json:"interval_change_13d"`
	IntervalChange5d  decimal.NullDecimal `json:"interval_change_5d"`
	ListingDays       null.Int            `json:"listing_days"`
	ForecastPE1y      decimal.NullDecimal `json:"forecast_pe_1y"`
	ForecastPE2y      decimal.NullDecimal `json:"forecast_pe_2y"`
	ForecastPE3y      decimal.NullDecimal `json:"forecast_pe_3y"`
	MarketCap         decimal.NullDecimal `json:"market_cap"`
	EPS               decimal.NullDecimal `json:"eps"`
	GrossMargin       decimal.NullDecimal `json:"gross_margin"`
	NetMargin         decimal.NullDecimal `json:"net_margin"`
	AuctionPrice      decimal.NullDecimal `json:"auction_price"`
	AuctionType       null.String         `json:"auction_type"`
	AuctionDesc       null.String         `json:"auction_desc"`
	AuctionRating     null.String         `json:"auction_rating"`
	AuctionVolume     decimal.NullDecimal `json:"auction_volume"`
	AuctionAmount     decimal.NullDecimal `json:"auction_amount"`
	MarketCode        null.Int            `json:"market_code"`
	UpdateDate        Date                `json:"update_date"`
	CreatedAt         Timestamp           `json:"created_at"`
	UpdatedAt         Timestamp           `json:"updated_at"`
}

// Symbol formata o código com zeros à esquerda (ex: 000001).
func (s Snapshot) Symbol() string {
	return fmt.Sprintf("%06d", s.Code)
}

// ChangePct devolve latest_change_pct, tratando nulo como zero.
func (s Snapshot) ChangePct() decimal.Decimal {
	if !s.LatestChangePct.Valid {
		return decimal.Zero
	}
	return s.LatestChangePct.Decimal
}

const (
	ColumnID              = "id"
	ColumnCode            = "code"
	ColumnLatestPrice     = "latest_price"
	ColumnLatestChangePct = "latest_change_pct"
	ColumnUpdateDate      = "update_date"
)

// SnapshotColumns lista as colunas da tabela na ordem canônica.
var SnapshotColumns = []string{
	"id",
	"code",
	"stock_name",
	"latest_price",
	"latest_change_pct",
	"listing_board",
	"auction_change_pct",
	"pe_ttm",
	"pe",
	"dde_large_order",
	"volume_ratio",
	"interval_change_13d",
	"interval_change_5d",
	"listing_days",
	"forecast_pe_1y",
	"forecast_pe_2y",
	"forecast_pe_3y",
	"market_cap",
	"eps",
	"gross_margin",
	"net_margin",
	"auction_price",
	"auction_type",
	"auction_desc",
	"auction_rating",
	"auction_volume",
	"auction_amount",
	"market_code",
	"update_date",
	"created_at",
	"updated_at",
}

// FieldPointers devolve os destinos de Scan para as colunas pedidas.
func (s *Snapshot) FieldPointers(columns []string) ([]any, error) {
	targets := make([]any, 0, len(columns))
	for _, col := range columns {
		p := s.fieldPointer(col)
		if p == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}
		targets = append(targets, p)
	}
	return targets, nil
}

func (s *Snapshot) fieldPointer(col string) any {
	switch col {
	case "id":
		return &s.ID
	case "code":
		return &s.Code
	case "stock_name":
		return &s.StockName
	case "latest_price":
		return &s.LatestPrice
	case "latest_change_pct":
		return &s.LatestChangePct
	case "listing_board":
		return &s.ListingBoard
	case "auction_change_pct":
		return &s.AuctionChangePct
	case "pe_ttm":
		return &s.PETTM
	case "pe":
		return &s.PE
	case "dde_large_order":
		return &s.DDELargeOrder
	case "volume_ratio":
		return &s.VolumeRatio
	case "interval_change_13d":
		return &s.IntervalChange13d
	case "interval_change_5d":
		return &s.IntervalChange5d
	case "listing_days":
		return &s.ListingDays
	case "forecast_pe_1y":
		return &s.ForecastPE1y
	case "forecast_pe_2y":
		return &s.ForecastPE2y
	case "forecast_pe_3y":
		return &s.ForecastPE3y
	case "market_cap":
		return &s.MarketCap
	case "eps":
		return &s.EPS
	case "gross_margin":
		return &s.GrossMargin
	case "net_margin":
		return &s.NetMargin
	case "auction_price":
		return &s.AuctionPrice
	case "auction_type":
		return &s.AuctionType
	case "auction_desc":
		return &s.AuctionDesc
	case "auction_rating":
		return &s.AuctionRating
	case "auction_volume":
		return &s.AuctionVolume
	case "auction_amount":
		return &s.AuctionAmount
	case "market_code":
		return &s.MarketCode
	case "update_date":
		return &s.UpdateDate
	case "created_at":
		return &s.CreatedAt
	case "updated_at":
		return &s.UpdatedAt
	}
	return nil
}

// IsColumn informa se col é uma coluna conhecida da tabela.
func IsColumn(col string) bool {
	var s Snapshot
	return s.fieldPointer(col) != nil
}

type Stats struct {
	TotalCount    int             `json:"totalCount"`
	PositiveCount int             `json:"positiveCount"`
	NegativeCount int             `json:"negativeCount"`
	AvgChangePct  decimal.Decimal `json:"avgChangePct"`
}

// PositiveShare e NegativeShare são percentuais do total, usados nos cards do painel.
func (s Stats) PositiveShare() decimal.Decimal {
	return share(s.PositiveCount, s.TotalCount)
}

func (s Stats) NegativeShare() decimal.Decimal {
	return share(s.NegativeCount, s.TotalCount)
}

func share(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1)
}
