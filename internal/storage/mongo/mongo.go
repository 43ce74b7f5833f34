package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pribylovaa/go-social-platform/internal/config"
	"github.com/pribylovaa/go-social-platform/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection         = "users"
	contentsCollection      = "contents"
	communitiesCollection   = "communities"
	notificationsCollection = "notifications"
	defaultDBName           = "social"
)

// Сопоставление без учёта регистра для поиска пользователей по упоминаниям.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// Mongo - тонкий адаптер для подключения и коллекций MongoDB.
type Mongo struct {
	cfg           *config.Config
	client        *mongodriver.Client
	db            *mongodriver.Database
	users         *mongodriver.Collection
	contents      *mongodriver.Collection
	communities   *mongodriver.Collection
	notifications *mongodriver.Collection
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.Storage = (*Mongo)(nil)

// New подключается к MongoDB, проверяет его, подготавливает коллекции и обеспечивает индексацию.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	// Пустые срезы пишем как [], иначе $addToSet/$push по null-полю падает.
	opts := options.Client().
		ApplyURI(cfg.DB.URL).
		SetBSONOptions(&options.BSONOptions{NilSliceAsEmpty: true})

	cli, err := mongodriver.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(cfg.DB.URL))

	m := &Mongo{
		cfg:           cfg,
		client:        cli,
		db:            db,
		users:         db.Collection(usersCollection),
		contents:      db.Collection(contentsCollection),
		communities:   db.Collection(communitiesCollection),
		notifications: db.Collection(notificationsCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

// Ping проверяет доступность primary.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создаёт индексы:
// - users: уникальный username + регистронезависимый для упоминаний;
// - contents: ленты сообщества/автора/комментариев поста и top по net_vote;
// - communities: уникальное имя и срок бана для sweeper;
// - notifications: выдача получателю.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	plan := []struct {
		coll   *mongodriver.Collection
		models []mongodriver.IndexModel
	}{
		{m.users, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("username_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("username_ci").SetCollation(caseInsensitive),
			},
		}},
		{m.contents, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "kind", Value: 1}, {Key: "community_name", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("kind_community_created_desc"),
			},
			{
				Keys:    bson.D{{Key: "kind", Value: 1}, {Key: "net_vote", Value: -1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("kind_net_vote_desc"),
			},
			{
				Keys:    bson.D{{Key: "parent_post_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("parent_post_created_desc"),
			},
			{
				Keys:    bson.D{{Key: "username", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("author_created_desc"),
			},
		}},
		{m.communities, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetName("name_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "banned_users.unban_at", Value: 1}},
				Options: options.Index().SetName("ban_unban_at"),
			},
		}},
		{m.notifications, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "to", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("to_created_desc"),
			},
		}},
	}

	for _, p := range plan {
		if _, err := p.coll.Indexes().CreateMany(ctx, p.models); err != nil {
			return fmt.Errorf("mongo ensure indexes %s: %w", p.coll.Name(), err)
		}
	}

	return nil
}

// inTx выполняет fn в транзакции, если они включены, иначе просто вызывает fn.
// Без транзакций порядок записей внутри fn определяет поведение при сбое.
func (m *Mongo) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.cfg.DB.Transactions {
		return fn(ctx)
	}

	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongodriver.SessionContext) (any, error) {
		return nil, fn(sc)
	})

	return err
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддается расшифровке, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}
