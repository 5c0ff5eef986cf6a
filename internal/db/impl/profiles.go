package impl

import (
	"context"
	"database/sql"
	"strings"

	"github.com/huviapp/huvi/internal/db"
	"github.com/huviapp/huvi/internal/domain"
)

func (d *dbImpl) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, full_name, role, onesignal_id, created_at, updated_at
		 FROM profiles WHERE id = ?`, id)

	var p domain.Profile
	var role string
	var pushID sql.NullString
	err := row.Scan(&p.ID, &p.FullName, &role, &pushID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, d.HandleError(err)
	}

	p.Role = domain.Role(role)
	p.OnesignalID = pushID.String
	return p, nil
}

func (d *dbImpl) CreateProfile(ctx context.Context, p domain.Profile) error {
	if p.Role == "" {
		p.Role = domain.RoleUser
	}

	_, err := d.db.ExecContext(ctx,
		`INSERT INTO profiles(id, full_name, role) VALUES (?, ?, ?)`,
		p.ID, p.FullName, string(p.Role))
	return d.HandleError(err)
}

func (d *dbImpl) UpdateProfile(ctx context.Context, id string, updates domain.ProfileUpdate) error {
	if updates.Empty() {
		return nil
	}

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}

	if updates.FullName != nil {
		sets = append(sets, "full_name = ?")
		args = append(args, *updates.FullName)
	}
	if updates.OnesignalID != nil {
		sets = append(sets, "onesignal_id = ?")
		args = append(args, sql.NullString{String: *updates.OnesignalID, Valid: *updates.OnesignalID != ""})
	}
	if updates.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, string(*updates.Role))
	}

	args = append(args, id)
	res, err := d.db.ExecContext(ctx,
		"UPDATE profiles SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return d.HandleError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return d.HandleError(err)
	}
	if affected == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (d *dbImpl) GetFullName(ctx context.Context, id string) (string, error) {
	var name string
	err := d.db.QueryRowContext(ctx,
		`SELECT full_name FROM profiles WHERE id = ?`, id).Scan(&name)
	return name, d.HandleError(err)
}

func (d *dbImpl) GetPushID(ctx context.Context, id string) (string, error) {
	var pushID sql.NullString
	err := d.db.QueryRowContext(ctx,
		`SELECT onesignal_id FROM profiles WHERE id = ?`, id).Scan(&pushID)
	if err != nil {
		return "", d.HandleError(err)
	}
	return pushID.String, nil
}
