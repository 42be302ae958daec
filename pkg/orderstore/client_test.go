package orderstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"
)

func TestList_NormalizesPayloadShapes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		status    int
		wantCount int
		wantErr   bool
	}{
		{name: "bare array", body: `[{"id_order":1},{"id_order":2}]`, status: http.StatusOK, wantCount: 2},
		{name: "wrapped orders", body: `{"orders":[{"id_order":1}]}`, status: http.StatusOK, wantCount: 1},
		{name: "wrapped data", body: `{"data":[{"id_order":1}]}`, status: http.StatusOK, wantCount: 1},
		{name: "empty wrapped orders", body: `{"orders":[]}`, status: http.StatusOK, wantCount: 0},
		{name: "malformed body", body: `{"orders": 12}`, status: http.StatusOK, wantErr: true},
		{name: "unrecognizable object", body: `{"foo": "bar"}`, status: http.StatusOK, wantErr: true},
		{name: "server error", body: `[]`, status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "")
			orders, err := client.List(context.Background(), "")
			if tt.wantErr {
				if !errors.Is(err, ErrTransport) {
					t.Errorf("error = %v, want ErrTransport", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}
			if len(orders) != tt.wantCount {
				t.Errorf("order count = %d, want %d", len(orders), tt.wantCount)
			}
		})
	}
}

func TestList_SendsSearchTerm(t *testing.T) {
	var gotSearch string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	if _, err := client.List(context.Background(), "山田 花子"); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if gotSearch != "山田 花子" {
		t.Errorf("search term = %q, want 山田 花子", gotSearch)
	}
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "success", status: http.StatusOK, body: `{"success":true}`},
		{name: "negative payload", status: http.StatusOK, body: `{"success":false,"error":"stale"}`, wantErr: ErrRejected},
		{name: "http error with contract body", status: http.StatusConflict, body: `{"success":false,"error":"conflict"}`, wantErr: ErrRejected},
		{name: "malformed body", status: http.StatusOK, body: `not json`, wantErr: ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod, gotPath = r.Method, r.URL.Path
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "")
			err := client.UpdateStatus(context.Background(), 7, models.StatusPaidInStore)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateStatus returned error: %v", err)
			}
			if gotMethod != http.MethodPut || gotPath != "/api/reservar/7" {
				t.Errorf("request = %s %s, want PUT /api/reservar/7", gotMethod, gotPath)
			}
		})
	}
}

func TestUpdateStatus_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, "")
	err := client.UpdateStatus(context.Background(), 1, models.StatusPaidInStore)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestReplaceOrder(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	order := &models.Order{ID: 12, FirstName: "花子", LastName: "山田"}
	if err := client.ReplaceOrder(context.Background(), order); err != nil {
		t.Fatalf("ReplaceOrder returned error: %v", err)
	}
	if gotPath != "/api/orders/12" {
		t.Errorf("path = %q, want /api/orders/12", gotPath)
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"success":true,"token":"tok123"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	if err := client.Login(context.Background(), "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if client.Token != "tok123" {
		t.Errorf("token = %q, want tok123", client.Token)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"error":"パスワードが正しくありません"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	if err := client.Login(context.Background(), "wrong"); !errors.Is(err, ErrRejected) {
		t.Errorf("error = %v, want ErrRejected", err)
	}
}
