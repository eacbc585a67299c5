package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/kuowesley/securebank-technical-challenge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountPayload struct {
	ID            uint   `json:"id"`
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType"`
	Balance       string `json:"balance"`
	Status        string `json:"status"`
}

func createAccountViaAPI(t *testing.T, ts *testutil.TestServer, cookie *http.Cookie, accountType string) accountPayload {
	t.Helper()

	resp := postJSON(t, ts.APIURL("/accounts"), map[string]string{"accountType": accountType}, cookie)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var account accountPayload
	testutil.AssertJSONResponse(t, resp, &account)
	return account
}

func fundBody(amount string) map[string]any {
	return map[string]any{
		"amount": json.Number(amount),
		"fundingSource": map[string]string{
			"type":          "card",
			"accountNumber": "4532015112830366",
		},
	}
}

func TestAccountHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)
	cookie := testutil.NewUserBuilder().SignupViaAPI(t, ts)

	t.Run("creates checking account", func(t *testing.T) {
		account := createAccountViaAPI(t, ts, cookie, "checking")
		assert.Len(t, account.AccountNumber, 10)
		assert.Equal(t, "checking", account.AccountType)
		assert.Equal(t, "active", account.Status)
	})

	t.Run("duplicate type conflicts", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/accounts"), map[string]string{"accountType": "checking"}, cookie)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusConflict, "You already have an account of this type")
	})

	t.Run("invalid type is rejected", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/accounts"), map[string]string{"accountType": "offshore"}, cookie)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})

	t.Run("requires session", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/accounts"), map[string]string{"accountType": "savings"}, nil)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})
}

func TestAccountHandler_List(t *testing.T) {
	ts := testutil.NewTestServer(t)
	cookie := testutil.NewUserBuilder().SignupViaAPI(t, ts)
	otherCookie := testutil.NewUserBuilder().SignupViaAPI(t, ts)

	t.Run("no accounts is an empty array", func(t *testing.T) {
		resp := getJSON(t, ts.APIURL("/accounts"), cookie)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
	})

	t.Run("returns only the caller's accounts", func(t *testing.T) {
		createAccountViaAPI(t, ts, cookie, "checking")
		createAccountViaAPI(t, ts, cookie, "savings")
		createAccountViaAPI(t, ts, otherCookie, "checking")

		resp := getJSON(t, ts.APIURL("/accounts"), cookie)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var accounts []accountPayload
		testutil.AssertJSONResponse(t, resp, &accounts)
		assert.Len(t, accounts, 2)
	})
}

func TestAccountHandler_Fund(t *testing.T) {
	ts := testutil.NewTestServer(t)
	cookie := testutil.NewUserBuilder().SignupViaAPI(t, ts)
	otherCookie := testutil.NewUserBuilder().SignupViaAPI(t, ts)

	account := createAccountViaAPI(t, ts, cookie, "checking")
	fundURL := ts.APIURL(fmt.Sprintf("/accounts/%d/fund", account.ID))

	t.Run("deposits and returns new balance", func(t *testing.T) {
		resp := postJSON(t, fundURL, fundBody("250.75"), cookie)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result struct {
			Transaction struct {
				Type   string `json:"type"`
				Status string `json:"status"`
				Amount string `json:"amount"`
			} `json:"transaction"`
			NewBalance string `json:"newBalance"`
		}
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Equal(t, "deposit", result.Transaction.Type)
		assert.Equal(t, "completed", result.Transaction.Status)
		assert.Equal(t, "250.75", result.NewBalance)
	})

	t.Run("non numeric amount is rejected", func(t *testing.T) {
		body := map[string]any{
			"amount": "lots",
			"fundingSource": map[string]string{
				"type":          "card",
				"accountNumber": "4532015112830366",
			},
		}
		resp := postJSON(t, fundURL, body, cookie)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})

	t.Run("validation failures report fields", func(t *testing.T) {
		resp := postJSON(t, fundURL, fundBody("-10"), cookie)
		defer resp.Body.Close()

		var result struct {
			Fields map[string][]string `json:"fields"`
		}
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Contains(t, result.Fields, "amount")
	})

	t.Run("someone else's account is not found", func(t *testing.T) {
		resp := postJSON(t, fundURL, fundBody("10"), otherCookie)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Account not found")
	})

	t.Run("malformed id is rejected", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/accounts/abc/fund"), fundBody("10"), cookie)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})
}

func TestAccountHandler_Transactions(t *testing.T) {
	ts := testutil.NewTestServer(t)
	cookie := testutil.NewUserBuilder().SignupViaAPI(t, ts)

	account := createAccountViaAPI(t, ts, cookie, "savings")
	fundURL := ts.APIURL(fmt.Sprintf("/accounts/%d/fund", account.ID))
	listURL := ts.APIURL(fmt.Sprintf("/accounts/%d/transactions", account.ID))

	for _, amount := range []string{"10", "20", "30"} {
		resp := postJSON(t, fundURL, fundBody(amount), cookie)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		resp.Body.Close()
	}

	type txnPage struct {
		Items []struct {
			ID          uint   `json:"id"`
			Amount      string `json:"amount"`
			AccountType string `json:"accountType"`
		} `json:"items"`
		NextCursor *uint `json:"nextCursor"`
	}

	t.Run("pages through history", func(t *testing.T) {
		resp := getJSON(t, listURL+"?limit=2", cookie)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var page txnPage
		testutil.AssertJSONResponse(t, resp, &page)
		require.Len(t, page.Items, 2)
		require.NotNil(t, page.NextCursor)
		assert.Equal(t, "30", page.Items[0].Amount)
		assert.Equal(t, "savings", page.Items[0].AccountType)

		next := getJSON(t, fmt.Sprintf("%s?limit=2&cursor=%d", listURL, *page.NextCursor), cookie)
		defer next.Body.Close()

		var rest txnPage
		testutil.AssertJSONResponse(t, next, &rest)
		require.Len(t, rest.Items, 1)
		assert.Nil(t, rest.NextCursor)
		assert.Equal(t, "10", rest.Items[0].Amount)
	})

	t.Run("invalid limit is rejected", func(t *testing.T) {
		for _, raw := range []string{"0", "-1", "abc"} {
			resp := getJSON(t, listURL+"?limit="+raw, cookie)
			testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
			resp.Body.Close()
		}
	})

	t.Run("invalid cursor is rejected", func(t *testing.T) {
		resp := getJSON(t, listURL+"?cursor=abc", cookie)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})
}
