package groups_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	groupsfeature "github.com/dalemusser/circlehub/internal/app/features/groups"
	commentstore "github.com/dalemusser/circlehub/internal/app/store/comments"
	groupstore "github.com/dalemusser/circlehub/internal/app/store/groups"
	poststore "github.com/dalemusser/circlehub/internal/app/store/posts"
	"github.com/dalemusser/circlehub/internal/app/system/identity"
	"github.com/dalemusser/circlehub/internal/app/system/notify"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"github.com/dalemusser/circlehub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *groupsfeature.Handler {
	t.Helper()
	logger := zap.NewNop()
	return groupsfeature.NewHandler(
		groupstore.New(db),
		poststore.New(db),
		commentstore.New(db),
		nil, // audit logging off in tests
		notify.NewLogDispatcher(logger),
		identity.NewMongoDirectory(db),
		logger,
	)
}

func do(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, r)
	return rec
}

func TestCreateAndViewGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	creator := testutil.NewUser("Casey")

	req := testutil.NewJSONRequest(t, "POST", "/groups", map[string]any{
		"name":        "Trail Runners",
		"description": "weekend runs",
		"tags":        []string{"sports"},
	}, creator)
	rec := do(h.HandleCreateGroup, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d, want 201\nbody: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Result struct {
			ID           string `json:"id"`
			MemberStatus string `json:"member_status"`
			Stats        struct {
				MemberCount int `json:"member_count"`
			} `json:"stats"`
		} `json:"result"`
	}
	testutil.DecodeJSON(t, rec, &created)
	if created.Result.MemberStatus != "admin" {
		t.Errorf("creator status: got %q, want admin", created.Result.MemberStatus)
	}
	if created.Result.Stats.MemberCount != 1 {
		t.Errorf("member count: got %d, want 1", created.Result.Stats.MemberCount)
	}

	viewReq := testutil.WithUser(httptest.NewRequest("GET", "/groups/"+created.Result.ID, nil), creator)
	viewReq = testutil.WithChiURLParam(viewReq, "groupID", created.Result.ID)
	rec = do(h.HandleViewGroup, viewReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("view status: got %d, want 200", rec.Code)
	}
}

func TestCreateGroup_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	user := testutil.NewUser("Casey")

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"type": "public"}},
		{"unknown type", map[string]any{"name": "X", "type": "hidden"}},
		{"unknown posting mode", map[string]any{"name": "X", "posting_permission": "vips_only"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(h.HandleCreateGroup, testutil.NewJSONRequest(t, "POST", "/groups", tc.body, user))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}
		})
	}
}

func TestViewGroup_SecretHiddenFromStrangers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	h := newTestHandler(t, db)
	f := testutil.NewFixtures(t, db)

	admin := testutil.NewUser("Admin")
	stranger := testutil.NewUser("Stranger")
	g := f.CreateGroupWith(ctx, "Hidden", admin.ID, func(g *models.Group) {
		g.Type = models.GroupSecret
	})

	req := testutil.WithUser(httptest.NewRequest("GET", "/groups/"+g.ID.Hex(), nil), stranger)
	req = testutil.WithChiURLParam(req, "groupID", g.ID.Hex())
	rec := do(h.HandleViewGroup, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("stranger view of secret group: got %d, want 404", rec.Code)
	}

	// A member sees it normally.
	req = testutil.WithUser(httptest.NewRequest("GET", "/groups/"+g.ID.Hex(), nil), admin)
	req = testutil.WithChiURLParam(req, "groupID", g.ID.Hex())
	rec = do(h.HandleViewGroup, req)
	if rec.Code != http.StatusOK {
		t.Errorf("member view of secret group: got %d, want 200", rec.Code)
	}
}

func TestMembershipFlow_AdminApproval(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	h := newTestHandler(t, db)
	f := testutil.NewFixtures(t, db)

	admin := testutil.NewUser("Admin")
	applicant := testutil.NewUser("Applicant")
	g := f.CreateGroupWith(ctx, "Selective", admin.ID, func(g *models.Group) {
		g.JoinApproval = models.JoinAdminApproval
	})
	gid := g.ID.Hex()

	// Join files a pending request.
	req := testutil.NewJSONRequest(t, "POST", "/groups/"+gid+"/membership", map[string]any{
		"action":  "join",
		"message": "hi",
	}, applicant)
	req = testutil.WithChiURLParam(req, "groupID", gid)
	rec := do(h.HandleMembershipAction, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("join status: got %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var joinResp struct {
		Result map[string]string `json:"result"`
	}
	testutil.DecodeJSON(t, rec, &joinResp)
	if joinResp.Result["member_status"] != "pending" {
		t.Errorf("member_status: got %q, want pending", joinResp.Result["member_status"])
	}

	// The admin approves.
	req = testutil.WithUser(httptest.NewRequest("POST", "/groups/"+gid+"/requests/"+applicant.ID.Hex()+"/approve", nil), admin)
	req = testutil.WithChiURLParam(req, "groupID", gid)
	req = testutil.WithChiURLParam(req, "userID", applicant.ID.Hex())
	rec = do(h.HandleApproveRequest, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status: got %d\nbody: %s", rec.Code, rec.Body.String())
	}

	// Approving again answers 404; the request is gone.
	rec = do(h.HandleApproveRequest, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double approve: got %d, want 404", rec.Code)
	}

	final, err := groupstore.New(db).GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !final.IsMember(applicant.ID) {
		t.Error("applicant is not a member after approval")
	}
}

func TestPostCommentReactFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	h := newTestHandler(t, db)
	f := testutil.NewFixtures(t, db)

	admin := testutil.NewUser("Admin")
	member := testutil.NewUser("Member")
	g := f.CreateGroupWith(ctx, "Makers", admin.ID, func(g *models.Group) {
		testutil.AddMember(g, member.ID, models.RoleMember)
	})
	gid := g.ID.Hex()

	// Member posts.
	req := testutil.NewJSONRequest(t, "POST", "/groups/"+gid+"/posts", map[string]any{
		"content": "first build finished",
	}, member)
	req = testutil.WithChiURLParam(req, "groupID", gid)
	rec := do(h.HandleCreatePost, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: got %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var postResp struct {
		Result struct {
			ID string `json:"id"`
		} `json:"result"`
	}
	testutil.DecodeJSON(t, rec, &postResp)
	pid := postResp.Result.ID

	// Admin comments; the post's stats recompute to 1 comment = score 3.
	req = testutil.NewJSONRequest(t, "POST", "/groups/"+gid+"/posts/"+pid+"/comments", map[string]any{
		"content": "nice work",
	}, admin)
	req = testutil.WithChiURLParam(req, "groupID", gid)
	req = testutil.WithChiURLParam(req, "postID", pid)
	rec = do(h.HandleCreateComment, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create comment: got %d\nbody: %s", rec.Code, rec.Body.String())
	}

	// Admin reacts; score becomes 3*1 + 1 = 4.
	req = testutil.NewJSONRequest(t, "POST", "/groups/"+gid+"/posts/"+pid+"/reactions", map[string]any{
		"type": "like",
	}, admin)
	req = testutil.WithChiURLParam(req, "groupID", gid)
	req = testutil.WithChiURLParam(req, "postID", pid)
	rec = do(h.HandleReact, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("react: got %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var reactResp struct {
		Result struct {
			Stats          models.PostStats `json:"stats"`
			ViewerReaction string           `json:"viewer_reaction"`
		} `json:"result"`
	}
	testutil.DecodeJSON(t, rec, &reactResp)
	if reactResp.Result.Stats.EngagementScore != 4 {
		t.Errorf("score: got %d, want 4", reactResp.Result.Stats.EngagementScore)
	}
	if reactResp.Result.ViewerReaction != "like" {
		t.Errorf("viewer reaction: got %q, want like", reactResp.Result.ViewerReaction)
	}

	// Reacting with the same type toggles it off; score falls back to 3.
	rec = do(h.HandleReact, testutil.WithChiURLParam(testutil.WithChiURLParam(
		testutil.NewJSONRequest(t, "POST", "/groups/"+gid+"/posts/"+pid+"/reactions", map[string]any{"type": "like"}, admin),
		"groupID", gid), "postID", pid))
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle react: got %d", rec.Code)
	}
	testutil.DecodeJSON(t, rec, &reactResp)
	if reactResp.Result.Stats.EngagementScore != 3 {
		t.Errorf("score after toggle: got %d, want 3", reactResp.Result.Stats.EngagementScore)
	}
	if reactResp.Result.Stats.ReactionCount != 0 {
		t.Errorf("reaction count after toggle: got %d, want 0", reactResp.Result.Stats.ReactionCount)
	}
}

func TestReportResolveRemoveContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	h := newTestHandler(t, db)
	f := testutil.NewFixtures(t, db)

	admin := testutil.NewUser("Admin")
	reporter := testutil.NewUser("Reporter")
	author := testutil.NewUser("Author")
	g := f.CreateGroupWith(ctx, "Forum", admin.ID, func(g *models.Group) {
		testutil.AddMember(g, reporter.ID, models.RoleMember)
		testutil.AddMember(g, author.ID, models.RoleMember)
	})
	gid := g.ID.Hex()
	post := f.CreatePost(ctx, g.ID, author.ID, "objectionable")

	// Reporter files against the post.
	req := testutil.NewJSONRequest(t, "POST", "/groups/"+gid+"/reports", map[string]any{
		"content_type": "post",
		"content_id":   post.ID.Hex(),
		"reason":       "spam",
	}, reporter)
	req = testutil.WithChiURLParam(req, "groupID", gid)
	rec := do(h.HandleFileReport, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("file report: got %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var fileResp struct {
		Result models.Report `json:"result"`
	}
	testutil.DecodeJSON(t, rec, &fileResp)
	reportID := fileResp.Result.ID

	// A plain member cannot resolve.
	resolveBody := map[string]any{"action": "remove_content", "note": "confirmed"}
	req = testutil.NewJSONRequest(t, "POST", "/groups/"+gid+"/reports/"+reportID+"/resolve", resolveBody, reporter)
	req = testutil.WithChiURLParam(req, "groupID", gid)
	req = testutil.WithChiURLParam(req, "reportID", reportID)
	if rec := do(h.HandleResolveReport, req); rec.Code != http.StatusForbidden {
		t.Fatalf("resolve as member: got %d, want 403", rec.Code)
	}

	// The admin resolves with remove_content.
	req = testutil.NewJSONRequest(t, "POST", "/groups/"+gid+"/reports/"+reportID+"/resolve", resolveBody, admin)
	req = testutil.WithChiURLParam(req, "groupID", gid)
	req = testutil.WithChiURLParam(req, "reportID", reportID)
	rec = do(h.HandleResolveReport, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve: got %d\nbody: %s", rec.Code, rec.Body.String())
	}

	// The post is soft-deleted, not gone.
	p, err := poststore.New(db).GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.IsActive {
		t.Error("reported post still active after remove_content")
	}

	// Resolving again answers 409.
	rec = do(h.HandleResolveReport, testutil.WithChiURLParam(testutil.WithChiURLParam(
		testutil.NewJSONRequest(t, "POST", "/groups/"+gid+"/reports/"+reportID+"/resolve", resolveBody, admin),
		"groupID", gid), "reportID", reportID))
	if rec.Code != http.StatusConflict {
		t.Errorf("double resolve: got %d, want 409", rec.Code)
	}
}

func TestUnbanIsRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	h := newTestHandler(t, db)
	f := testutil.NewFixtures(t, db)

	admin := testutil.NewUser("Admin")
	g := f.CreateGroup(ctx, "Strict", admin.ID)

	req := testutil.NewJSONRequest(t, "POST", "/groups/"+g.ID.Hex()+"/membership", map[string]any{
		"action": "unban",
	}, admin)
	req = testutil.WithChiURLParam(req, "groupID", g.ID.Hex())
	rec := do(h.HandleMembershipAction, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unban action: got %d, want 400", rec.Code)
	}
}
