package handler

import (
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khiandraj/Finance-Tracker/internal/model/dto"
	"github.com/khiandraj/Finance-Tracker/internal/pkg/response"
	"github.com/khiandraj/Finance-Tracker/internal/repository"
	"github.com/khiandraj/Finance-Tracker/internal/service"
	"github.com/khiandraj/Finance-Tracker/internal/testutil"
)

func setupSubscriptionHandler(t *testing.T) (*SubscriptionHandler, *TransactionHandler, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	subRepo := repository.NewSubscriptionRepository(db)
	txnRepo := repository.NewTransactionRepository(db)

	transactionService := service.NewTransactionService(txnRepo)
	subscriptionService := service.NewSubscriptionService(subRepo, transactionService, nil, nil)

	ctx := &testContext{
		DB: db,
	}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return NewSubscriptionHandler(subscriptionService), NewTransactionHandler(transactionService), ctx, cleanup
}

func subscriptionRouter(subHandler *SubscriptionHandler, txnHandler *TransactionHandler, userID int64) *gin.Engine {
	router := gin.New()
	router.Use(mockAuth(userID))
	router.POST("/subscriptions", subHandler.Create)
	router.GET("/subscriptions", subHandler.List)
	router.POST("/subscriptions/process-due", subHandler.ProcessDue)
	router.GET("/subscriptions/:id", subHandler.Get)
	router.DELETE("/subscriptions/:id", subHandler.Cancel)
	router.GET("/transactions", txnHandler.List)
	return router
}

func TestSubscriptionHandler_Create_Success(t *testing.T) {
	subHandler, txnHandler, _, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	router := subscriptionRouter(subHandler, txnHandler, 1)

	next := time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC)
	w := performRequest(router, "POST", "/subscriptions", dto.CreateSubscriptionRequest{
		Name:           "Netflix",
		Amount:         decimal.NewFromFloat(15.99),
		Frequency:      "monthly",
		NextPaymentUtc: &next,
	})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Netflix", data["name"])
	assert.Equal(t, "monthly", data["frequency"])
	assert.Equal(t, "USD", data["currency"])
	assert.Equal(t, true, data["is_active"])
}

func TestSubscriptionHandler_Create_InvalidFrequency(t *testing.T) {
	subHandler, txnHandler, _, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	router := subscriptionRouter(subHandler, txnHandler, 1)

	w := performRequest(router, "POST", "/subscriptions", dto.CreateSubscriptionRequest{
		Name:      "Bad",
		Amount:    decimal.NewFromInt(10),
		Frequency: "fortnightly",
	})
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
}

func TestSubscriptionHandler_List_ActiveFilter(t *testing.T) {
	subHandler, txnHandler, ctx, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	testutil.TestSubscription(t, ctx.DB, 1, testutil.WithName("Active"))
	testutil.TestSubscription(t, ctx.DB, 1, testutil.WithName("Canceled"), testutil.WithActive(false))

	router := subscriptionRouter(subHandler, txnHandler, 1)

	w := performRequest(router, "GET", "/subscriptions", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	items, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)

	w = performRequest(router, "GET", "/subscriptions?active=true", nil)
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	items, ok = resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestSubscriptionHandler_Get_OtherUsersForbidden(t *testing.T) {
	subHandler, txnHandler, ctx, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	sub := testutil.TestSubscription(t, ctx.DB, 2)

	router := subscriptionRouter(subHandler, txnHandler, 1)

	w := performRequest(router, "GET", fmt.Sprintf("/subscriptions/%d", sub.ID), nil)
	assert.Equal(t, response.CodePermissionDenied, parseResponse(t, w).Code)

	w = performRequest(router, "DELETE", fmt.Sprintf("/subscriptions/%d", sub.ID), nil)
	assert.Equal(t, response.CodePermissionDenied, parseResponse(t, w).Code)
}

func TestSubscriptionHandler_Cancel(t *testing.T) {
	subHandler, txnHandler, ctx, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	sub := testutil.TestSubscription(t, ctx.DB, 1)
	router := subscriptionRouter(subHandler, txnHandler, 1)

	w := performRequest(router, "DELETE", fmt.Sprintf("/subscriptions/%d", sub.ID), nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	// 取消是终态，重复取消也返回成功
	w = performRequest(router, "DELETE", fmt.Sprintf("/subscriptions/%d", sub.ID), nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "DELETE", "/subscriptions/99999", nil)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)

	w = performRequest(router, "DELETE", "/subscriptions/notanumber", nil)
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
}

func TestSubscriptionHandler_ProcessDue(t *testing.T) {
	subHandler, txnHandler, ctx, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	due := time.Now().UTC().Add(-time.Hour)
	testutil.TestSubscription(t, ctx.DB, 1,
		testutil.WithName("Netflix"),
		testutil.WithAmount(decimal.NewFromFloat(15.99)),
		testutil.WithNextPayment(due))

	router := subscriptionRouter(subHandler, txnHandler, 1)

	w := performRequest(router, "POST", "/subscriptions/process-due", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["processed"])

	// 扣费后能在流水里查到
	w = performRequest(router, "GET", "/transactions", nil)
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	page, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), page["total"])

	items, ok := page["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	txn, ok := items[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Recurring payment for Netflix", txn["description"])
	assert.Equal(t, "15.99", txn["amount"])
}
