package repos

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/access"
	"github.com/openhearth/charity-backend/internal/data/repos/testutil"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
)

func txContext(t *testing.T) (dbctx.Context, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	return dbctx.Context{Ctx: context.Background(), Tx: tx}, tx
}

func seedRole(t *testing.T, tx *gorm.DB, name string) *domain.Role {
	t.Helper()
	role := &domain.Role{}
	err := tx.Where("name = ?", name).
		Attrs(domain.Role{ID: uuid.New(), Name: name}).
		FirstOrCreate(role).Error
	if err != nil {
		t.Fatalf("seed role %s: %v", name, err)
	}
	return role
}

func seedUser(t *testing.T, tx *gorm.DB, role *domain.Role, first string) *domain.User {
	t.Helper()
	suffix := strings.Split(uuid.NewString(), "-")[0]
	username := strings.ToLower(first) + "." + suffix
	email := username + "@example.org"
	now := time.Now().UTC()
	u := &domain.User{
		ID:                 uuid.New(),
		UserName:           username,
		NormalizedUserName: domain.NormalizeUserKey(username),
		Email:              email,
		NormalizedEmail:    domain.NormalizeUserKey(email),
		PasswordHash:       "x",
		FirstName:          first,
		IsActive:           true,
		JoinedAt:           now,
		RoleID:             role.ID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := tx.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedProject(t *testing.T, tx *gorm.DB, status domain.ProjectStatus) *domain.Project {
	t.Helper()
	suffix := strings.ToUpper(strings.Split(uuid.NewString(), "-")[0])
	now := time.Now().UTC()
	p := &domain.Project{
		ID:              uuid.New(),
		Code:            "PRJ-" + suffix,
		Name:            "Project " + suffix,
		GoalAmount:      decimal.RequireFromString("5000.00"),
		CollectedAmount: decimal.Zero,
		StartDate:       now.AddDate(0, -1, 0),
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.Create(p).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}

func seedMembership(t *testing.T, tx *gorm.DB, project *domain.Project, user *domain.User) {
	t.Helper()
	pm := &domain.ProjectMember{
		ProjectID:      project.ID,
		UserID:         user.ID,
		AssignmentRole: "Member",
		AssignedAt:     time.Now().UTC(),
	}
	if err := tx.Create(pm).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}
}

func seedDonation(t *testing.T, tx *gorm.DB, project *domain.Project, amount string, at time.Time) *domain.Donation {
	t.Helper()
	d := &domain.Donation{
		ID:        uuid.New(),
		ProjectID: project.ID,
		Amount:    decimal.RequireFromString(amount),
		Method:    domain.MethodCard,
		DonatedAt: at,
	}
	if err := tx.Create(d).Error; err != nil {
		t.Fatalf("seed donation: %v", err)
	}
	return d
}

func TestProjectRepoScopeFiltering(t *testing.T) {
	dbc, tx := txContext(t)
	log := testutil.Logger(t)
	repo := NewProjectRepo(tx, log)

	volunteerRole := seedRole(t, tx, domain.RoleVolunteer)
	volunteer := seedUser(t, tx, volunteerRole, "Vera")
	mine := seedProject(t, tx, domain.ProjectActive)
	other := seedProject(t, tx, domain.ProjectActive)
	seedMembership(t, tx, mine, volunteer)

	adminScope := access.ForCaller(domain.RoleAdministrator, uuid.New())
	adminRows, err := repo.List(dbc, adminScope, ProjectFilter{})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if !containsProject(adminRows, mine.ID) || !containsProject(adminRows, other.ID) {
		t.Fatalf("admin must see both seeded projects")
	}

	volScope := access.ForCaller(domain.RoleVolunteer, volunteer.ID)
	volRows, err := repo.List(dbc, volScope, ProjectFilter{})
	if err != nil {
		t.Fatalf("volunteer list: %v", err)
	}
	if !containsProject(volRows, mine.ID) {
		t.Fatalf("volunteer must see their project")
	}
	if containsProject(volRows, other.ID) {
		t.Fatalf("volunteer must not see projects without membership")
	}

	deniedRows, err := repo.List(dbc, access.Scope{}, ProjectFilter{})
	if err != nil {
		t.Fatalf("denied list: %v", err)
	}
	if len(deniedRows) != 0 {
		t.Fatalf("denied scope must see nothing, got %d", len(deniedRows))
	}
}

func containsProject(rows []*domain.Project, id uuid.UUID) bool {
	for _, p := range rows {
		if p.ID == id {
			return true
		}
	}
	return false
}

func TestProjectRepoLockRequiresTransaction(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	repo := NewProjectRepo(db, log)

	if _, err := repo.LockByID(dbctx.Context{Ctx: context.Background()}, uuid.New()); err == nil {
		t.Fatalf("lock outside a transaction must fail")
	}
}

func TestDonationRepoSumAndSeries(t *testing.T) {
	dbc, tx := txContext(t)
	log := testutil.Logger(t)
	repo := NewDonationRepo(tx, log)

	project := seedProject(t, tx, domain.ProjectActive)
	now := time.Now().UTC()
	seedDonation(t, tx, project, "100.00", now.AddDate(0, -2, 0))
	seedDonation(t, tx, project, "50.00", now)
	seedDonation(t, tx, project, "25.50", now)

	adminScope := access.ForCaller(domain.RoleAdministrator, uuid.New())

	// Scope through a volunteer member of only this project keeps the
	// shared database's other rows out of the sums.
	volunteerRole := seedRole(t, tx, domain.RoleVolunteer)
	volunteer := seedUser(t, tx, volunteerRole, "Vera")
	seedMembership(t, tx, project, volunteer)
	volScope := access.ForCaller(domain.RoleVolunteer, volunteer.ID)

	total, err := repo.SumAmounts(dbc, volScope, nil)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("175.50")) {
		t.Fatalf("expected total 175.50, got %s", total)
	}

	since := now.AddDate(0, -1, 0)
	recent, err := repo.SumAmounts(dbc, volScope, &since)
	if err != nil {
		t.Fatalf("sum since: %v", err)
	}
	if !recent.Equal(decimal.RequireFromString("75.50")) {
		t.Fatalf("expected recent total 75.50, got %s", recent)
	}

	series, err := repo.MonthlyTotals(dbc, volScope, now.AddDate(0, -3, 0))
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 series points, got %d", len(series))
	}
	var sum decimal.Decimal
	for _, p := range series {
		sum = sum.Add(p.Total)
	}
	if !sum.Equal(total) {
		t.Fatalf("series must sum to the total: %s vs %s", sum, total)
	}

	empty, err := repo.SumAmounts(dbc, adminScope, nil)
	if err != nil {
		t.Fatalf("admin sum: %v", err)
	}
	if empty.LessThan(total) {
		t.Fatalf("admin-wide sum must cover at least the seeded rows")
	}
}

func TestNotificationRepoMarkSentIdempotent(t *testing.T) {
	dbc, tx := txContext(t)
	log := testutil.Logger(t)
	repo := NewNotificationRepo(tx, log)

	project := seedProject(t, tx, domain.ProjectActive)
	n := &domain.Notification{
		ID:        uuid.New(),
		Channel:   domain.ChannelEmail,
		Title:     "New donation for " + project.Name,
		Message:   "Anonymous donated 10.00 to project " + project.Name + ".",
		CreatedAt: time.Now().UTC(),
		ProjectID: &project.ID,
	}
	if _, err := repo.Create(dbc, []*domain.Notification{n}); err != nil {
		t.Fatalf("create: %v", err)
	}

	flipped, err := repo.MarkSent(dbc, n.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if !flipped {
		t.Fatalf("first mark must flip the flag")
	}

	again, err := repo.MarkSent(dbc, n.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("second mark: %v", err)
	}
	if again {
		t.Fatalf("second mark must be a no-op")
	}

	row, err := repo.GetByID(dbc, n.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !row.IsSent || row.SentAt == nil {
		t.Fatalf("row must be sent with a timestamp")
	}
}

func TestNotificationRepoUnsentFilter(t *testing.T) {
	dbc, tx := txContext(t)
	log := testutil.Logger(t)
	repo := NewNotificationRepo(tx, log)

	project := seedProject(t, tx, domain.ProjectActive)
	rows := []*domain.Notification{
		{ID: uuid.New(), Channel: domain.ChannelEmail, Title: "a", Message: "a", CreatedAt: time.Now().UTC(), ProjectID: &project.ID},
		{ID: uuid.New(), Channel: domain.ChannelSms, Title: "b", Message: "b", CreatedAt: time.Now().UTC(), ProjectID: &project.ID},
	}
	if _, err := repo.Create(dbc, rows); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.MarkSent(dbc, rows[0].ID, time.Now().UTC()); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	adminScope := access.ForCaller(domain.RoleAdministrator, uuid.New())
	unsent, err := repo.List(dbc, adminScope, NotificationFilter{ProjectID: project.ID, Unsent: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(unsent) != 1 || unsent[0].ID != rows[1].ID {
		t.Fatalf("expected only the unsent row, got %d", len(unsent))
	}
}

func TestProjectMemberRepoExistsAndDelete(t *testing.T) {
	dbc, tx := txContext(t)
	log := testutil.Logger(t)
	repo := NewProjectMemberRepo(tx, log)

	role := seedRole(t, tx, domain.RoleVolunteer)
	user := seedUser(t, tx, role, "Vera")
	project := seedProject(t, tx, domain.ProjectDraft)
	seedMembership(t, tx, project, user)

	ok, err := repo.Exists(dbc, project.ID, user.ID)
	if err != nil || !ok {
		t.Fatalf("expected membership to exist: %v", err)
	}

	if err := repo.Delete(dbc, project.ID, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	ok, err = repo.Exists(dbc, project.ID, user.ID)
	if err != nil {
		t.Fatalf("exists after delete: %v", err)
	}
	if ok {
		t.Fatalf("membership must be gone")
	}
}

func TestUserRepoNormalizedLookup(t *testing.T) {
	dbc, tx := txContext(t)
	log := testutil.Logger(t)
	repo := NewUserRepo(tx, log)

	role := seedRole(t, tx, domain.RoleVolunteer)
	user := seedUser(t, tx, role, "Vera")

	got, err := repo.GetByNormalizedEmail(dbc, domain.NormalizeUserKey(" "+strings.ToUpper(user.Email)+" "))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("wrong user returned")
	}
}

func TestAuditLogRepoListAndPaging(t *testing.T) {
	dbc, tx := txContext(t)
	log := testutil.Logger(t)
	repo := NewAuditLogRepo(tx, log)

	entityID := uuid.New()
	for i := 0; i < 12; i++ {
		row := &domain.AuditLog{
			ID:          uuid.New(),
			EntityName:  "Donation",
			EntityID:    entityID,
			Action:      domain.ActionCreated,
			Changes:     []byte(`{"Amount":{"new":"10.00"}}`),
			PerformedBy: domain.AuditActorSystem,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.Create(row).Error; err != nil {
			t.Fatalf("seed audit row: %v", err)
		}
	}

	rows, total, err := repo.List(dbc, AuditLogFilter{EntityName: "Donation", EntityID: entityID, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 12 {
		t.Fatalf("expected total 12, got %d", total)
	}
	if len(rows) != 10 {
		t.Fatalf("expected first page of 10, got %d", len(rows))
	}

	rest, _, err := repo.List(dbc, AuditLogFilter{EntityName: "Donation", EntityID: entityID, Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("expected 2 rows on the second page, got %d", len(rest))
	}
}
