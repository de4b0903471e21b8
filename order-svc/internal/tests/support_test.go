package tests

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/lemon630/order-meal/order-svc/internal/domain"
	"github.com/lemon630/order-meal/order-svc/internal/mocks"
	"github.com/lemon630/order-meal/order-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminAuthenticator_PlainSecret(t *testing.T) {
	auth, err := service.NewAdminAuthenticator("", "s3cret")
	require.NoError(t, err)

	assert.NoError(t, auth.Check("s3cret"))
	assert.ErrorIs(t, auth.Check("wrong"), service.ErrWrongPassword)
	assert.ErrorIs(t, auth.Check(""), service.ErrWrongPassword)
}

func TestAdminAuthenticator_Hash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("kitchen"), bcrypt.MinCost)
	require.NoError(t, err)

	auth, err := service.NewAdminAuthenticator(string(hash), "ignored")
	require.NoError(t, err)
	assert.NoError(t, auth.Check("kitchen"))
	assert.Error(t, auth.Check("ignored"))
}

func TestAdminAuthenticator_Misconfigured(t *testing.T) {
	_, err := service.NewAdminAuthenticator("", "")
	assert.ErrorIs(t, err, service.ErrNoAdminSecret)

	_, err = service.NewAdminAuthenticator("not-a-bcrypt-hash", "")
	assert.Error(t, err)
}

func TestTableQRGenerator(t *testing.T) {
	gen := service.TableQRGenerator{BaseURL: "https://eat.example"}

	assert.Equal(t, "https://eat.example/?table=12", gen.Link(12))

	data, err := gen.Generate(12)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func receiptOrder(lines ...domain.OrderLine) *domain.Order {
	order := &domain.Order{
		ID:        9,
		Table:     3,
		Items:     lines,
		Status:    domain.StatusPending,
		CreatedAt: time.Date(2026, 10, 16, 12, 30, 0, 0, time.UTC),
	}
	for _, line := range lines {
		order.Total += line.Subtotal
	}
	return order
}

func TestReceiptPrinter_CoreFont(t *testing.T) {
	printer, err := service.NewReceiptPrinter("")
	require.NoError(t, err)
	printer.Compress = false
	assert.False(t, printer.HasFont())

	pdf, err := printer.Render(receiptOrder(
		domain.OrderLine{DishID: 1, Name: "Burger", Price: 88, Qty: 2, Subtotal: 176},
		domain.OrderLine{DishID: 2, Name: "Café crème", Price: 32, Qty: 1, Subtotal: 32},
	))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Contains(t, string(pdf), "(Burger)")
	assert.Contains(t, string(pdf), "(Caf\351 cr\350me)")
}

func TestReceiptPrinter_CoreFontPrintsDishNumberForCJKNames(t *testing.T) {
	printer, err := service.NewReceiptPrinter("")
	require.NoError(t, err)
	printer.Compress = false

	pdf, err := printer.Render(receiptOrder(
		domain.OrderLine{DishID: 7, Name: "熔岩芝士牛肉堡", Price: 88, Qty: 1, Subtotal: 88},
	))
	require.NoError(t, err)

	assert.Contains(t, string(pdf), "(Dish #7)")
	assert.NotContains(t, string(pdf), "(.......)")
}

func TestReceiptPrinter_UTF8Font(t *testing.T) {
	printer, err := service.NewReceiptPrinter("testdata/DejaVuSansCondensed.ttf")
	require.NoError(t, err)
	printer.Compress = false
	assert.True(t, printer.HasFont())

	pdf, err := printer.Render(receiptOrder(
		domain.OrderLine{DishID: 7, Name: "熔岩芝士牛肉堡", Price: 88, Qty: 1, Subtotal: 88},
		domain.OrderLine{DishID: 8, Name: "鲜榨橙汁", Price: 32, Qty: 1, Subtotal: 32},
	))
	require.NoError(t, err)

	out := string(pdf)
	assert.Contains(t, out, "/BaseFont /utf8ticket")
	assert.Contains(t, out, "/Encoding /Identity-H")
	assert.Contains(t, out, "/FontFile2")
	assert.NotContains(t, out, "(.......)")
	assert.NotContains(t, out, "(....)")
	assert.NotContains(t, out, "Dish #7")
}

func TestNewReceiptPrinter_MissingFont(t *testing.T) {
	_, err := service.NewReceiptPrinter("testdata/missing.ttf")
	assert.Error(t, err)
}

func TestStatsService_TodayReadsCurrentDate(t *testing.T) {
	reader := mocks.NewStatsReader(t)
	svc := service.NewStatsService(reader)

	reader.On("DailyStats", mock.Anything, mock.MatchedBy(func(date string) bool {
		_, err := time.Parse("2006-01-02", date)
		return err == nil
	}), 5).Return(&domain.DailyStats{Orders: 2}, nil).Once()

	stats, err := svc.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Orders)
}
