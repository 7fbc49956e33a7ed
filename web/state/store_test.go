package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
	"daily_report_app_go/web/query"
)

func salesUser() *dto.UserResponse {
	return &dto.UserResponse{ID: 1, Name: "山田太郎", Email: "yamada@example.com", Role: models.RoleSales}
}

func TestSetUser_NotifiesSubscribers(t *testing.T) {
	s := NewStore()
	var got []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	s.SetUser(salesUser())
	require.Len(t, got, 1)
	assert.Equal(t, "山田太郎", got[0].User.Name)

	s.SetUser(salesUser())
	assert.Len(t, got, 1, "setting the same user is not a change")

	unsubscribe()
	s.SetUser(nil)
	assert.Len(t, got, 1)
	assert.Nil(t, s.User())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.SetUser(salesUser())
	s.AddToast(ToastError, "失敗しました")

	snap := s.Snapshot()
	snap.User.Name = "changed"
	snap.Toasts[0].Message = "changed"

	assert.Equal(t, "山田太郎", s.User().Name)
	assert.Equal(t, "失敗しました", s.Snapshot().Toasts[0].Message)
}

func TestAddToast_SuccessExpires(t *testing.T) {
	s := NewStore()
	s.toastTTL = 20 * time.Millisecond

	s.AddToast(ToastSuccess, "日報を保存しました")
	s.AddToast(ToastError, "エラーが発生しました")
	require.Len(t, s.Snapshot().Toasts, 2)

	assert.Eventually(t, func() bool {
		toasts := s.Snapshot().Toasts
		return len(toasts) == 1 && toasts[0].Type == ToastError
	}, time.Second, 5*time.Millisecond)
}

func TestRemoveToast(t *testing.T) {
	s := NewStore()
	id := s.AddToast(ToastSuccess, "顧客を登録しました")
	other := s.AddToast(ToastError, "x")
	assert.NotEqual(t, id, other)

	s.RemoveToast(id)
	s.RemoveToast("unknown")

	toasts := s.Snapshot().Toasts
	require.Len(t, toasts, 1)
	assert.Equal(t, other, toasts[0].ID)
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.SetUser(salesUser())
	s.AddToast(ToastSuccess, "ok")

	calls := 0
	s.Subscribe(func(Snapshot) { calls++ })
	s.Clear()
	s.Clear()

	assert.Equal(t, 1, calls)
	assert.Nil(t, s.User())
	assert.Empty(t, s.Snapshot().Toasts)
}

func TestStore_ConcurrentUse(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := s.AddToast(ToastError, "x")
			_ = s.Snapshot()
			s.RemoveToast(id)
		}()
	}
	wg.Wait()
	assert.Empty(t, s.Snapshot().Toasts)
}

func TestRegistry_ReusesSessionPerToken(t *testing.T) {
	r := NewRegistry(10, time.Minute)
	a := r.Get("token-a")
	assert.Same(t, a, r.Get("token-a"))
	assert.NotSame(t, a, r.Get("token-b"))
	assert.Equal(t, 2, r.Len())

	r.Drop("token-a")
	assert.NotSame(t, a, r.Get("token-a"))
}

func TestRegistry_UserChangeClearsQueryCache(t *testing.T) {
	r := NewRegistry(10, time.Minute)
	sess := r.Get("tok")
	sess.Store.SetUser(salesUser())
	sess.Queries.SetData(query.Key{"reports", "list"}, "cached")

	sess.Store.SetUser(&dto.UserResponse{ID: 2, Name: "佐藤", Role: models.RoleSales})
	assert.False(t, sess.Queries.Has(query.Key{"reports", "list"}))
}

func TestRegistry_DropClearsState(t *testing.T) {
	r := NewRegistry(10, time.Minute)
	sess := r.Get("tok")
	sess.Store.SetUser(salesUser())
	sess.Queries.SetData(query.Key{"auth", "me"}, "u")

	r.Drop("tok")
	assert.Nil(t, sess.Store.User())
	assert.False(t, sess.Queries.Has(query.Key{"auth", "me"}))
}
