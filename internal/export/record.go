package export

import (
	"time"

	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// Record é a linha do arquivo parquet. Ponteiro nil vira valor nulo.
type Record struct {
	ID                int64      `parquet:"id"`
	Code              string     `parquet:"code"`
	StockName         *string    `parquet:"stock_name,optional"`
	LatestPrice       *float64   `parquet:"latest_price,optional"`
	LatestChangePct   *float64   `parquet:"latest_change_pct,optional"`
	ListingBoard      *string    `parquet:"listing_board,optional"`
	AuctionChangePct  *float64   `parquet:"auction_change_pct,optional"`
	PETTM             *float64   `parquet:"pe_ttm,optional"`
	PE                *float64   `parquet:"pe,optional"`
	DDELargeOrder     *float64   `parquet:"dde_large_order,optional"`
	VolumeRatio       *float64   `parquet:"volume_ratio,optional"`
	IntervalChange13d *float64   `parquet:"interval_change_13d,optional"`
	IntervalChange5d  *float64   `parquet:"interval_change_5d,optional"`
	ListingDays       *int64     `parquet:"listing_days,optional"`
	ForecastPE1y      *float64   `parquet:"forecast_pe_1y,optional"`
	ForecastPE2y      *float64   `parquet:"forecast_pe_2y,optional"`
	ForecastPE3y      *float64   `parquet:"forecast_pe_3y,optional"`
	MarketCap         *float64   `parquet:"market_cap,optional"`
	EPS               *float64   `parquet:"eps,optional"`
	GrossMargin       *float64   `parquet:"gross_margin,optional"`
	NetMargin         *float64   `parquet:"net_margin,optional"`
	AuctionPrice      *float64   `parquet:"auction_price,optional"`
	AuctionType       *string    `parquet:"auction_type,optional"`
	AuctionDesc       *string    `parquet:"auction_desc,optional"`
	AuctionRating     *string    `parquet:"auction_rating,optional"`
	AuctionVolume     *float64   `parquet:"auction_volume,optional"`
	AuctionAmount     *float64   `parquet:"auction_amount,optional"`
	MarketCode        *int64     `parquet:"market_code,optional"`
	UpdateDate        string     `parquet:"update_date"`
	CreatedAt         *time.Time `parquet:"created_at,optional"`
	UpdatedAt         *time.Time `parquet:"updated_at,optional"`
}

func NewRecord(s domain.Snapshot) Record {
	return Record{
		ID:                s.ID,
		Code:              s.Symbol(),
		StockName:         s.StockName.Ptr(),
		LatestPrice:       floatPtr(s.LatestPrice),
		LatestChangePct:   floatPtr(s.LatestChangePct),
		ListingBoard:      s.ListingBoard.Ptr(),
		AuctionChangePct:  floatPtr(s.AuctionChangePct),
		PETTM:             floatPtr(s.PETTM),
		PE:                floatPtr(s.PE),
		DDELargeOrder:     floatPtr(s.DDELargeOrder),
		VolumeRatio:       floatPtr(s.VolumeRatio),
		IntervalChange13d: floatPtr(s.IntervalChange13d),
		IntervalChange5d:  floatPtr(s.IntervalChange5d),
		ListingDays:       s.ListingDays.Ptr(),
		ForecastPE1y:      floatPtr(s.ForecastPE1y),
		ForecastPE2y:      floatPtr(s.ForecastPE2y),
		ForecastPE3y:      floatPtr(s.ForecastPE3y),
		MarketCap:         floatPtr(s.MarketCap),
		EPS:               floatPtr(s.EPS),
		GrossMargin:       floatPtr(s.GrossMargin),
		NetMargin:         floatPtr(s.NetMargin),
		AuctionPrice:      floatPtr(s.AuctionPrice),
		AuctionType:       s.AuctionType.Ptr(),
		AuctionDesc:       s.AuctionDesc.Ptr(),
		AuctionRating:     s.AuctionRating.Ptr(),
		AuctionVolume:     floatPtr(s.AuctionVolume),
		AuctionAmount:     floatPtr(s.AuctionAmount),
		MarketCode:        s.MarketCode.Ptr(),
		UpdateDate:        s.UpdateDate.String(),
		CreatedAt:         timestamp(s.CreatedAt),
		UpdatedAt:         timestamp(s.UpdatedAt),
	}
}

func floatPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

func timestamp(t domain.Timestamp) *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}
