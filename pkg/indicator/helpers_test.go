package indicator

import (
	"time"

	"github.com/omarelsayed/signal-engine/internal/models"
)

var testBase = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

// closeBar builds a bar where only the close matters
func closeBar(i int, close float64) *models.PriceBar {
	return &models.PriceBar{
		Symbol:    "AAPL",
		Timestamp: testBase.Add(time.Duration(i) * time.Minute),
		Open:      close,
		High:      close,
		Low:       close,
		Close:     close,
	}
}

// ohlcBar builds a bar with explicit high/low/close
func ohlcBar(i int, high, low, close float64) *models.PriceBar {
	return &models.PriceBar{
		Symbol:    "AAPL",
		Timestamp: testBase.Add(time.Duration(i) * time.Minute),
		Open:      close,
		High:      high,
		Low:       low,
		Close:     close,
	}
}
