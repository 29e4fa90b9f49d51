package backend

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

// CreatedUser is the result of CreateUser.
type CreatedUser struct {
	UserID domain.ID
	User   *domain.User
}

// UserSummary is one row of the paginated user list.
type UserSummary struct {
	ID               domain.ID `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Gender           string    `json:"gender"`
	Age              int       `json:"age"`
	Email            string    `json:"email"`
	RegistrationDate string    `json:"registration_date"`
	LastActivity     string    `json:"last_activity"`
	Sessions         int       `json:"sessions"`
	Status           string    `json:"status"`
}

type Pagination struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

type UserList struct {
	Users      []UserSummary `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

// AuthResult is returned by Register and LoginAsGuest.
type AuthResult struct {
	User      *domain.User
	Token     string
	SessionID string
}

func (c *Client) CreateUser(ctx context.Context, u domain.NewUser) (*CreatedUser, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	env, err := c.post(ctx, "/api/users/create", u)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	out := &CreatedUser{}
	if user, err := decodeField[domain.User](env, "user"); err == nil {
		out.User = &user
		out.UserID = user.ID
	}
	if id, err := decodeField[domain.ID](env, "user_id", "id"); err == nil {
		out.UserID = id
	}
	if out.UserID.IsZero() {
		return nil, fmt.Errorf("create user: %w", domain.ErrInvalidResponse.WithError(fmt.Errorf("no user id in response")))
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id domain.ID) (*domain.User, error) {
	env, err := c.get(ctx, "/api/users/"+pathID(id), nil)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	user, err := decodeField[domain.User](env, "user", "data")
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &user, nil
}

// ListUsers forwards params (page, per_page, type, status, search) as the
// query string.
func (c *Client) ListUsers(ctx context.Context, params url.Values) (*UserList, error) {
	env, err := c.get(ctx, "/api/users/list", params)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	list, err := decodeField[UserList](env, "data")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &list, nil
}

func (c *Client) UpdateUser(ctx context.Context, id domain.ID, update domain.UserUpdate) error {
	if _, err := c.put(ctx, "/api/users/"+pathID(id), update); err != nil {
		return fmt.Errorf("update user %s: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteUser(ctx context.Context, id domain.ID) error {
	if _, err := c.delete(ctx, "/api/users/"+pathID(id)); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}

func (c *Client) SearchUsers(ctx context.Context, name string) ([]domain.User, error) {
	env, err := c.get(ctx, "/api/users/search", url.Values{"name": {name}})
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	users, err := decodeField[[]domain.User](env, "users", "data", "results")
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

func (c *Client) CountUsers(ctx context.Context) (int, error) {
	env, err := c.get(ctx, "/api/users/count", nil)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	n, err := decodeField[int](env, "count", "total", "data")
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// UsersStats returns the backend's user statistics. The shape is not fixed
// by the backend, so values are left generic.
func (c *Client) UsersStats(ctx context.Context) (map[string]interface{}, error) {
	env, err := c.get(ctx, "/api/users/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("users stats: %w", err)
	}
	stats, err := decodeField[map[string]interface{}](env, "data", "stats")
	if err != nil {
		return nil, fmt.Errorf("users stats: %w", err)
	}
	return stats, nil
}

func (c *Client) Register(ctx context.Context, r domain.Registration) (*AuthResult, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, domain.ErrValidationFailed.WithMessage("name is required", 422)
	}
	env, err := c.post(ctx, "/api/users/register", r)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return c.acceptAuth(env)
}

func (c *Client) LoginAsGuest(ctx context.Context) (*AuthResult, error) {
	env, err := c.post(ctx, "/api/users/guest", nil)
	if err != nil {
		return nil, fmt.Errorf("guest login: %w", err)
	}
	return c.acceptAuth(env)
}

// acceptAuth stores the token and user of a successful auth response.
func (c *Client) acceptAuth(env envelope) (*AuthResult, error) {
	res := &AuthResult{}
	if user, err := decodeField[domain.User](env, "user"); err == nil {
		res.User = &user
	}
	if token, err := decodeField[string](env, "token", "jwt_token"); err == nil {
		res.Token = token
	}
	if sid, err := decodeField[string](env, "session_id"); err == nil {
		res.SessionID = sid
	}

	if !env.success() || res.Token == "" {
		return res, nil
	}

	c.state.SetToken(res.Token)
	c.state.SetUser(res.User)
	if err := c.tokens.Save(res.Token); err != nil {
		c.logger.Warn("failed to persist auth token", "error", err)
	}
	return res, nil
}

// GetCurrentUser refreshes the cached user. Any failure logs the client out.
func (c *Client) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	if c.state.Token() == "" {
		return nil, domain.ErrNotAuthenticated
	}

	env, err := c.get(ctx, "/api/users/me", nil)
	if err == nil && !env.success() {
		err = domain.ErrApplication.WithMessage("current user unavailable", 0)
	}
	var user domain.User
	if err == nil {
		user, err = decodeField[domain.User](env, "user", "data")
	}
	if err != nil {
		c.Logout()
		return nil, fmt.Errorf("get current user: %w", err)
	}

	c.state.SetUser(&user)
	return &user, nil
}

// Logout forgets the token, user and session locally. The backend is not
// contacted.
func (c *Client) Logout() {
	c.state.Reset()
	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn("failed to clear stored token", "error", err)
	}
}

// UpdateUserFromFace fills in the current user's missing age and gender
// from detection data. Guests and unknown users are skipped.
func (c *Client) UpdateUserFromFace(ctx context.Context, face domain.FaceData) error {
	user := c.state.User()
	if user == nil || user.IsGuest {
		return nil
	}

	var update domain.UserUpdate
	if !user.HasAge() && face.Age > 0 {
		age := int(math.Round(face.Age))
		update.Age = &age
	}
	if !user.HasGender() && face.Gender != "" {
		gender := face.Gender
		update.Gender = &gender
	}
	if update.IsEmpty() {
		return nil
	}

	if err := c.UpdateUser(ctx, user.ID, update); err != nil {
		return err
	}

	c.state.UpdateUser(func(u *domain.User) {
		if update.Age != nil {
			u.ApproximateAge = *update.Age
		}
		if update.Gender != nil {
			u.Gender = *update.Gender
		}
	})
	c.logger.Info("updated user from face data", "user_id", user.ID, "age", update.Age != nil, "gender", update.Gender != nil)
	return nil
}
