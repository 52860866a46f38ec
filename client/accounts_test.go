package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brojonat/compte/client"
	"github.com/brojonat/compte/client/clienttest"
)

func TestRegister(t *testing.T) {
	srv := clienttest.NewServer(t)
	cl := client.NewClient(srv.URL, nil, nil, nil)

	msg, err := cl.Register(context.Background(), "new@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Utilisateur créé avec succès", msg)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "new@example.com", reqs[0].Query.Get("email"))
	assert.Equal(t, "pw", reqs[0].Query.Get("mdp"))

	// Duplicate registrations are reported in the message, not the status.
	msg, err = cl.Register(context.Background(), "new@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "L'email est déjà utilisé", msg)
}

func TestRegister_RequiresEmail(t *testing.T) {
	cl := client.NewClient("http://unused", nil, nil, nil)
	_, err := cl.Register(context.Background(), "", "pw")
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	srv := clienttest.NewServer(t)
	srv.AddUser("alice@example.com", "secret")
	cl := client.NewClient(srv.URL, nil, nil, nil)

	token, err := cl.Login(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, clienttest.TokenFor("alice@example.com"), token)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	var body map[string]string
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, "secret", body["mdp"])
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := clienttest.NewServer(t)
	srv.AddUser("alice@example.com", "secret")
	cl := client.NewClient(srv.URL, nil, nil, nil)

	token, err := cl.Login(context.Background(), "alice@example.com", "nope")
	require.Error(t, err)
	assert.Empty(t, token)
	assert.Contains(t, err.Error(), "Email ou mdp incorrect")

	var statusErr *client.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestUpdatePassword(t *testing.T) {
	srv, cl := newAuthedServer(t)

	msg, err := cl.UpdatePassword(context.Background(), "secret", "better")
	require.NoError(t, err)
	assert.Equal(t, "Mot de passe mis à jour", msg)

	// The new password now logs in.
	anon := client.NewClient(srv.URL, nil, nil, nil)
	_, err = anon.Login(context.Background(), "alice@example.com", "better")
	require.NoError(t, err)
}

func TestUpdatePassword_Validation(t *testing.T) {
	_, cl := newAuthedServer(t)

	_, err := cl.UpdatePassword(context.Background(), "secret", "")
	require.Error(t, err)

	_, err = cl.UpdatePassword(context.Background(), "secret", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")

	_, err = cl.UpdatePassword(context.Background(), "wrong", "better")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mot de passe actuel incorrect")
}

func TestAccounts(t *testing.T) {
	srv, cl := newAuthedServer(t)

	accounts, err := cl.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)

	account, err := cl.AddAccount(context.Background(), "Courant", "FR7612345")
	require.NoError(t, err)
	assert.Equal(t, "Courant", account.Name)
	assert.Equal(t, "FR7612345", account.IBAN)
	assert.NotZero(t, account.ID)

	accounts, err = cl.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "FR7612345", accounts[0].IBAN)

	me, err := cl.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, me.AccountCount)

	var addReq *clienttest.Request
	for _, req := range srv.Requests() {
		if req.Path == "/account_add/" {
			req := req
			addReq = &req
		}
	}
	require.NotNil(t, addReq)
	var body map[string]string
	require.NoError(t, json.Unmarshal(addReq.Body, &body))
	assert.Equal(t, "Courant", body["nom"])
}

func TestAddAccount_RequiresFields(t *testing.T) {
	_, cl := newAuthedServer(t)
	_, err := cl.AddAccount(context.Background(), "", "FR76")
	require.Error(t, err)
}

func TestGetAccount(t *testing.T) {
	srv, cl := newAuthedServer(t)
	srv.AddAccount("alice@example.com", client.Account{Name: "Courant", IBAN: "FR7612345", Balance: 90000})

	detail, err := cl.GetAccount(context.Background(), "FR7612345")
	require.NoError(t, err)
	assert.Equal(t, "Courant", detail.Name)
	assert.Equal(t, 90000.0, detail.Balance)
	assert.Len(t, detail.History, 2)
	assert.Empty(t, detail.OnGoing)
}

func TestGetAccount_NotFound(t *testing.T) {
	_, cl := newAuthedServer(t)

	detail, err := cl.GetAccount(context.Background(), "FR00")
	require.Error(t, err)
	assert.Nil(t, detail)
	assert.True(t, errors.Is(err, client.ErrAccountNotFound))
}

func TestDeposit(t *testing.T) {
	srv, cl := newAuthedServer(t)
	srv.AddAccount("alice@example.com", client.Account{Name: "Courant", IBAN: "FR7612345", Balance: 100})

	msg, err := cl.Deposit(context.Background(), "FR7612345", 50.5)
	require.NoError(t, err)
	assert.Contains(t, msg, "réussi")

	var depositReq clienttest.Request
	for _, req := range srv.Requests() {
		if req.Path == "/deposit" {
			depositReq = req
		}
	}
	assert.Equal(t, "50.5", depositReq.Query.Get("amount"))
	assert.Equal(t, "FR7612345", depositReq.Query.Get("iban_dest"))

	detail, err := cl.GetAccount(context.Background(), "FR7612345")
	require.NoError(t, err)
	assert.Equal(t, 150.5, detail.Balance)
}

func TestDeposit_RejectsNonPositive(t *testing.T) {
	srv, cl := newAuthedServer(t)

	for _, amount := range []float64{0, -10} {
		_, err := cl.Deposit(context.Background(), "FR7612345", amount)
		require.Error(t, err)
	}
	assert.Empty(t, srv.Requests())
}
