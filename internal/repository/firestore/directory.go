// Package firestore реализует repository.Directory поверх Cloud Firestore.
// Пользователь хранится одним документом users/{uid}; учётные данные лежат в
// accounts/{email}, чтобы уникальность email обеспечивал сам документ.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/repository"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection    = "users"
	accountsCollection = "accounts"
)

type Directory struct {
	client *firestore.Client
	logger *zap.Logger
}

var _ repository.Directory = (*Directory)(nil)

// NewClient подключается к проекту. Без файла ключа используются учётные
// данные окружения (ADC или эмулятор через FIRESTORE_EMULATOR_HOST)
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}

func NewDirectory(client *firestore.Client, logger *zap.Logger) *Directory {
	return &Directory{
		client: client,
		logger: logger,
	}
}

func (d *Directory) users() *firestore.CollectionRef {
	return d.client.Collection(usersCollection)
}

func (d *Directory) accounts() *firestore.CollectionRef {
	return d.client.Collection(accountsCollection)
}

func accountKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// wrap переводит gRPC-коды в доменные ошибки
func wrap(op string, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrParse),
		errors.Is(err, model.ErrEmailTaken):
		return err
	case status.Code(err) == codes.NotFound:
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	case status.Code(err) == codes.AlreadyExists:
		return fmt.Errorf("%s: %w", op, model.ErrEmailTaken)
	default:
		return model.BackendError(op, err)
	}
}

// GetUser читает документ пользователя
func (d *Directory) GetUser(ctx context.Context, uid string) (*model.User, error) {
	snap, err := d.users().Doc(uid).Get(ctx)
	if err != nil {
		return nil, wrap("get user "+uid, err)
	}
	return decodeUser(snap.Ref.ID, snap.Data())
}

// ListTutors читает всех репетиторов. Нечитаемые документы пропускаются
func (d *Directory) ListTutors(ctx context.Context) ([]*model.User, error) {
	it := d.users().Where(fieldIsTutor, "==", true).Documents(ctx)
	defer it.Stop()

	var tutors []*model.User
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, wrap("list tutors", err)
		}

		tutor, err := decodeUser(snap.Ref.ID, snap.Data())
		if err != nil {
			d.logger.Warn("Skipping malformed tutor document",
				zap.String("uid", snap.Ref.ID),
				zap.Error(err))
			continue
		}
		tutors = append(tutors, tutor)
	}

	return tutors, nil
}

// CreateAccount создаёт оба документа в транзакции. Занятый email
// проявляется как AlreadyExists на документе accounts
func (d *Directory) CreateAccount(ctx context.Context, account *model.Account, user *model.User) error {
	err := d.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		accountRef := d.accounts().Doc(accountKey(account.Email))
		if _, err := tx.Get(accountRef); err == nil {
			return fmt.Errorf("create account %s: %w", account.Email, model.ErrEmailTaken)
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		if err := tx.Create(accountRef, map[string]interface{}{
			fieldUID:          account.UID,
			fieldEmail:        account.Email,
			fieldPasswordHash: account.PasswordHash,
			fieldCreatedAt:    user.CreatedAt,
		}); err != nil {
			return err
		}
		return tx.Create(d.users().Doc(user.UID), encodeUser(user))
	})
	if err != nil {
		return wrap("create account", err)
	}

	account.CreatedAt = user.CreatedAt
	d.logger.Info("Account created",
		zap.String("uid", user.UID),
		zap.String("email", account.Email))

	return nil
}

// GetAccountByEmail читает учётные данные
func (d *Directory) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	snap, err := d.accounts().Doc(accountKey(email)).Get(ctx)
	if err != nil {
		return nil, wrap("get account", err)
	}
	return decodeAccount(snap.Data())
}

// UpdateProfile обновляет поля профиля. Update падает с NotFound, если документа нет
func (d *Directory) UpdateProfile(ctx context.Context, uid string, update model.ProfileUpdate) error {
	_, err := d.users().Doc(uid).Update(ctx, []firestore.Update{
		{Path: fieldName, Value: update.Name},
		{Path: fieldPricePerHour, Value: int64(update.PricePerHour)},
		{Path: fieldAbout, Value: update.About},
		{Path: fieldIsTutor, Value: update.IsTutor},
	})
	if err != nil {
		return wrap("update profile", err)
	}
	return nil
}

// UpdateSubjects читает документ и записывает subjects вместе с availableSlots
// в одной транзакции
func (d *Directory) UpdateSubjects(ctx context.Context, uid string, fn repository.SubjectsMutation) error {
	var fnErr error
	ref := d.users().Doc(uid)

	err := d.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		user, err := decodeUser(uid, snap.Data())
		if err != nil {
			return err
		}

		subjects, slots, err := fn(user.Subjects, user.AvailableSlots)
		if err != nil {
			fnErr = err
			return err
		}
		if subjects == nil {
			subjects = []string{}
		}

		return tx.Update(ref, []firestore.Update{
			{Path: fieldSubjects, Value: subjects},
			{Path: fieldAvailableSlots, Value: encodeSlots(slots)},
		})
	})

	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return wrap("update subjects", err)
	}
	return nil
}

func slotPath(subject string) firestore.FieldPath {
	return firestore.FieldPath{fieldAvailableSlots, subject}
}

// AddSlot добавляет время через ArrayUnion, повторное добавление ничего не меняет
func (d *Directory) AddSlot(ctx context.Context, uid, subject string, t time.Time) error {
	_, err := d.users().Doc(uid).Update(ctx, []firestore.Update{
		{FieldPath: slotPath(subject), Value: firestore.ArrayUnion(model.NormalizeSlot(t))},
	})
	if err != nil {
		return wrap("add slot", err)
	}
	return nil
}

// RemoveSlot убирает время через ArrayRemove
func (d *Directory) RemoveSlot(ctx context.Context, uid, subject string, t time.Time) error {
	_, err := d.users().Doc(uid).Update(ctx, []firestore.Update{
		{FieldPath: slotPath(subject), Value: firestore.ArrayRemove(model.NormalizeSlot(t))},
	})
	if err != nil {
		return wrap("remove slot", err)
	}
	return nil
}

// CommitBooking применяет изменения обоих документов одним батчем
func (d *Directory) CommitBooking(ctx context.Context, w model.BookingWrite) error {
	batch := d.client.Batch()

	batch.Update(d.users().Doc(w.TutorID), []firestore.Update{
		{FieldPath: slotPath(w.Subject), Value: firestore.ArrayRemove(model.NormalizeSlot(w.Time))},
		{Path: fieldSelectedSlots, Value: firestore.ArrayUnion(encodeTutorBooking(w.TutorSide))},
	})
	batch.Update(d.users().Doc(w.StudentID), []firestore.Update{
		{Path: fieldUserBookings, Value: firestore.ArrayUnion(encodeStudentBooking(w.StudentSide))},
	})

	if _, err := batch.Commit(ctx); err != nil {
		return wrap("commit booking", err)
	}
	return nil
}
