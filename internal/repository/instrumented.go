package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/metrics"
	"github.com/Freeeeeet/tutor_connect/internal/model"
)

type instrumented struct {
	next Directory
}

// Instrument оборачивает каталог замером длительности каждой операции
func Instrument(next Directory) Directory {
	return &instrumented{next: next}
}

func (d *instrumented) GetUser(ctx context.Context, uid string) (user *model.User, err error) {
	defer func(start time.Time) { metrics.ObserveDirectory("get_user", start, err) }(time.Now())
	return d.next.GetUser(ctx, uid)
}

func (d *instrumented) ListTutors(ctx context.Context) (tutors []*model.User, err error) {
	defer func(start time.Time) { metrics.ObserveDirectory("list_tutors", start, err) }(time.Now())
	return d.next.ListTutors(ctx)
}

func (d *instrumented) CreateAccount(ctx context.Context, account *model.Account, user *model.User) (err error) {
	defer func(start time.Time) { metrics.ObserveDirectory("create_account", start, err) }(time.Now())
	return d.next.CreateAccount(ctx, account, user)
}

func (d *instrumented) GetAccountByEmail(ctx context.Context, email string) (account *model.Account, err error) {
	defer func(start time.Time) { metrics.ObserveDirectory("get_account", start, err) }(time.Now())
	return d.next.GetAccountByEmail(ctx, email)
}

func (d *instrumented) UpdateProfile(ctx context.Context, uid string, update model.ProfileUpdate) (err error) {
	defer func(start time.Time) { metrics.ObserveDirectory("update_profile", start, err) }(time.Now())
	return d.next.UpdateProfile(ctx, uid, update)
}

func (d *instrumented) UpdateSubjects(ctx context.Context, uid string, fn SubjectsMutation) (err error) {
	defer func(start time.Time) { metrics.ObserveDirectory("update_subjects", start, err) }(time.Now())
	return d.next.UpdateSubjects(ctx, uid, fn)
}

func (d *instrumented) AddSlot(ctx context.Context, uid, subject string, t time.Time) (err error) {
	defer func(start time.Time) { metrics.ObserveDirectory("add_slot", start, err) }(time.Now())
	return d.next.AddSlot(ctx, uid, subject, t)
}

func (d *instrumented) RemoveSlot(ctx context.Context, uid, subject string, t time.Time) (err error) {
	defer func(start time.Time) { metrics.ObserveDirectory("remove_slot", start, err) }(time.Now())
	return d.next.RemoveSlot(ctx, uid, subject, t)
}

func (d *instrumented) CommitBooking(ctx context.Context, w model.BookingWrite) (err error) {
	defer func(start time.Time) { metrics.ObserveDirectory("commit_booking", start, err) }(time.Now())
	return d.next.CommitBooking(ctx, w)
}
