package services

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/bookbuy-api/auth"
	"github.com/Kariqs/bookbuy-api/repositories"
	"github.com/Kariqs/bookbuy-api/utils"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap/zaptest"
)

var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type sentMail struct {
	subject, recipient, body string
}

// captureMailer records every message it is asked to send.
type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *captureMailer) Send(_ context.Context, subject, recipient, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{subject, recipient, body})
	return m.err
}

func (m *captureMailer) messages() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

// lastToken extracts the 32 hex char token from the latest message body.
func (m *captureMailer) lastToken(t *testing.T) string {
	t.Helper()
	msgs := m.messages()
	require.NotEmpty(t, msgs)
	for _, field := range strings.FieldsFunc(msgs[len(msgs)-1].body, func(r rune) bool {
		return r == ' ' || r == '.' || r == ':'
	}) {
		if len(field) == 2*activationTokenBytes {
			return field
		}
	}
	t.Fatalf("no token in %q", msgs[len(msgs)-1].body)
	return ""
}

type fakeUploader struct {
	keys         []string
	contentTypes []string
	err          error
}

func (u *fakeUploader) Upload(_ context.Context, key, contentType string, body io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	u.keys = append(u.keys, key)
	u.contentTypes = append(u.contentTypes, contentType)
	return "https://images.example.com/" + key, nil
}

var errUploadDown = errors.New("s3 unreachable")

type testApp struct {
	store      *repositories.Store
	mailer     *captureMailer
	dispatcher *utils.MailDispatcher
	redis      *miniredis.Miniredis
	issuer     *auth.TokenIssuer
	ledger     *auth.RevocationLedger
	gate       *auth.Gate
	activation *ActivationService
	users      *UserService
	catalog    *CatalogService
	carts      *CartService
	uploader   *fakeUploader
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := zaptest.NewLogger(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	app := &testApp{
		store:    repositories.NewMemoryStore(),
		mailer:   &captureMailer{},
		redis:    mr,
		issuer:   auth.NewTokenIssuer("test-secret", 30*time.Minute),
		ledger:   auth.NewRevocationLedger(client),
		uploader: &fakeUploader{},
	}
	app.dispatcher = utils.NewMailDispatcher(app.mailer, log)
	app.gate = auth.NewGate(app.ledger, app.issuer, app.store.Users)
	app.activation = NewActivationService(app.store.ActivationTokens, app.store.Users, 24*time.Hour)
	app.users = NewUserService(app.store.Users, app.activation, app.issuer, app.ledger, app.dispatcher, log)
	app.catalog = NewCatalogService(app.store.Authors, app.store.Books, app.uploader)
	app.carts = NewCartService(app.store.Carts, app.catalog)
	return app
}

// newMongoTestStore runs against a throwaway database on MONGO_URI, skipping
// the test when it is not set.
func newMongoTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetTimeout(10 * time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("bookbuy_test_" + bson.NewObjectID().Hex())
	t.Cleanup(func() { _ = db.Drop(context.Background()) })
	require.NoError(t, repositories.EnsureIndexes(context.Background(), db))
	return repositories.NewMongoStore(db)
}
