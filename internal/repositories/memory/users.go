package memory

import (
	"context"
	"sort"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
)

type userRepository struct {
	s *Storage
	*repositories.RegistrationPolicy
}

func (r *userRepository) GetUsers(_ context.Context) ([]entities.User, error) {
	r.s.rlock()
	defer r.s.runlock()

	users := make([]entities.User, 0, len(r.s.st.users))
	for _, u := range r.s.st.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *userRepository) FindUser(_ context.Context, id uint64) (*entities.User, error) {
	r.s.rlock()
	defer r.s.runlock()

	u, ok := r.s.st.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.s.rlock()
	defer r.s.runlock()
	return r.findBy(func(u entities.User) bool { return u.Email == email })
}

func (r *userRepository) FindByUsername(_ context.Context, username string) (*entities.User, error) {
	r.s.rlock()
	defer r.s.runlock()
	return r.findBy(func(u entities.User) bool { return u.Username == username })
}

func (r *userRepository) findBy(match func(entities.User) bool) (*entities.User, error) {
	for _, u := range r.s.st.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// taken сообщает, занято ли имя или email другим пользователем.
func (r *userRepository) taken(exceptID uint64, username, email string) bool {
	for id, u := range r.s.st.users {
		if id == exceptID {
			continue
		}
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return true
		}
	}
	return false
}

func (r *userRepository) CreateUser(_ context.Context, user *entities.User) (*entities.User, error) {
	r.s.lock()
	defer r.s.unlock()

	if r.taken(0, user.Username, user.Email) {
		return nil, apperrors.ErrConflict
	}

	created := *user
	r.s.st.nextUserID++
	created.ID = r.s.st.nextUserID
	if created.Role == "" {
		created.Role = entities.RoleViewer
	}
	ts := r.s.st.stamp(r.s.now())
	created.CreatedAt, created.UpdatedAt = ts, ts

	r.s.st.users[created.ID] = created
	return &created, nil
}

func (r *userRepository) UpdateUser(_ context.Context, id uint64, patch entities.UserPatch) (*entities.User, error) {
	r.s.lock()
	defer r.s.unlock()

	u, ok := r.s.st.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if r.taken(id, deref(patch.Username), deref(patch.Email)) {
		return nil, apperrors.ErrConflict
	}

	patch.Apply(&u)
	u.UpdatedAt = r.s.st.stamp(r.s.now())
	r.s.st.users[id] = u
	return &u, nil
}

func (r *userRepository) DeleteUser(_ context.Context, id uint64) (bool, error) {
	r.s.lock()
	defer r.s.unlock()

	if _, ok := r.s.st.users[id]; !ok {
		return false, nil
	}
	delete(r.s.st.users, id)
	return true, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
