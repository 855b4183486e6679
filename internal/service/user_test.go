package service

import (
	"context"
	"testing"

	"github.com/ncobase/jobboard/ecode"
	"github.com/ncobase/jobboard/internal/structs"
)

func registerRequest() *structs.RegisterRequest {
	return &structs.RegisterRequest{
		Name:     "Hoa Pham",
		Email:    "Hoa@Example.com",
		Phone:    "0901234567",
		Password: "s3cret-pass",
		Role:     structs.RoleJobSeeker,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.User.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if res.Token == "" || res.User.Email != "hoa@example.com" || res.User.AuthProvider != structs.AuthLocal {
		t.Errorf("Register() = %+v", res.User)
	}
	if res.User.PasswordHash == "s3cret-pass" {
		t.Error("password stored in clear")
	}

	_, err = f.svc.User.Register(ctx, registerRequest())
	wantCode(t, err, ecode.Conflict)

	adminReq := registerRequest()
	adminReq.Email = "boss@example.com"
	adminReq.Role = structs.RoleAdmin
	_, err = f.svc.User.Register(ctx, adminReq)
	wantCode(t, err, ecode.RequestErr)

	tests := []struct {
		name string
		req  structs.LoginRequest
		code int
	}{
		{"ok", structs.LoginRequest{Email: "hoa@example.com", Password: "s3cret-pass", Role: structs.RoleJobSeeker}, ecode.OK},
		{"wrong password", structs.LoginRequest{Email: "hoa@example.com", Password: "nope-nope", Role: structs.RoleJobSeeker}, ecode.Unauthorized},
		{"unknown email", structs.LoginRequest{Email: "ghost@example.com", Password: "s3cret-pass", Role: structs.RoleJobSeeker}, ecode.Unauthorized},
		{"role mismatch", structs.LoginRequest{Email: "hoa@example.com", Password: "s3cret-pass", Role: structs.RoleEmployer}, ecode.NothingFound},
		{"seeded without password", structs.LoginRequest{Email: "admin@example.com", Password: "anything", Role: structs.RoleAdmin}, ecode.Unauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.User.Login(ctx, &tt.req)
			wantCode(t, err, tt.code)
			if err == nil && res.Token == "" {
				t.Error("Login() returned no token")
			}
		})
	}
}

func TestCreateAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.svc.User.CreateAdmin(ctx, &structs.CreateAdminRequest{Name: "Root", Email: "root@example.com", Password: "long-enough"})
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != structs.RoleAdmin {
		t.Errorf("role = %q", u.Role)
	}
	if _, err := f.svc.User.Login(ctx, &structs.LoginRequest{Email: "root@example.com", Password: "long-enough", Role: structs.RoleAdmin}); err != nil {
		t.Errorf("Login() error = %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.svc.User.Register(ctx, registerRequest())
	if err != nil {
		t.Fatal(err)
	}
	me := Actor{ID: res.User.ID, Role: res.User.Role}

	name := "Hoa P."
	company := &structs.CompanyInfo{CompanyName: "Ignored"}
	u, err := f.svc.User.UpdateProfile(ctx, me, &structs.UpdateProfileRequest{Name: &name, CompanyInfo: company})
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != name || u.CompanyInfo != nil {
		t.Errorf("profile = %+v", u)
	}

	_, err = f.svc.User.UpdateProfile(ctx, me, &structs.UpdateProfileRequest{NewPassword: "another-pass"})
	wantCode(t, err, ecode.RequestErr)
	_, err = f.svc.User.UpdateProfile(ctx, me, &structs.UpdateProfileRequest{CurrentPassword: "wrong-pass", NewPassword: "another-pass"})
	wantCode(t, err, ecode.Unauthorized)
	if _, err = f.svc.User.UpdateProfile(ctx, me, &structs.UpdateProfileRequest{CurrentPassword: "s3cret-pass", NewPassword: "another-pass"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.User.Login(ctx, &structs.LoginRequest{Email: "hoa@example.com", Password: "another-pass", Role: structs.RoleJobSeeker}); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}

	taken := "hr@acme.example"
	_, err = f.svc.User.UpdateProfile(ctx, me, &structs.UpdateProfileRequest{Email: &taken})
	wantCode(t, err, ecode.Conflict)

	info := &structs.CompanyInfo{CompanyName: " Acme ", CompanySize: "11-50"}
	u, err = f.svc.User.UpdateProfile(ctx, employer, &structs.UpdateProfileRequest{CompanyInfo: info})
	if err != nil {
		t.Fatal(err)
	}
	if u.CompanyInfo == nil || u.CompanyInfo.CompanyName != "Acme" {
		t.Errorf("company = %+v", u.CompanyInfo)
	}

	got, err := f.svc.User.Me(ctx, employer)
	if err != nil || got.CompanyInfo == nil {
		t.Errorf("Me() = %+v, %v", got, err)
	}
}
