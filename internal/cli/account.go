package cli

import (
	"fmt"

	"github.com/ghzx55/graderevive/internal/report"

	"github.com/urfave/cli/v2"
)

func (c *commands) signup(ctx *cli.Context) error {
	resp, err := c.client.Signup(ctx.Context, ctx.String("email"), ctx.String("password"))
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("signup failed: %s", resp.Error)
	}
	c.render.Success("Signed up as %s. Run `gpa login` next.", ctx.String("email"))
	return nil
}

func (c *commands) login(ctx *cli.Context) error {
	if _, err := c.client.Login(ctx.Context, ctx.String("email"), ctx.String("password")); err != nil {
		return err
	}
	c.render.Success("Logged in as %s", ctx.String("email"))
	return nil
}

func (c *commands) logout(ctx *cli.Context) error {
	resp, err := c.client.Logout(ctx.Context)
	if err != nil {
		return err
	}
	c.render.Success("%s", resp.Message)
	return nil
}

func (c *commands) profile(ctx *cli.Context) error {
	profile, err := c.client.GetProfile(ctx.Context)
	if err != nil {
		return err
	}
	c.render.Profile(profile)
	return nil
}

func (c *commands) gpaGet(ctx *cli.Context) error {
	record, err := c.client.GetGPA(ctx.Context)
	if err != nil {
		return err
	}
	c.render.Success("Saved GPA: %s (updated %s)", report.FormatGPA(record.GPA), record.UpdatedAt.Format("2006-01-02 15:04"))
	return nil
}

func (c *commands) gpaSave(ctx *cli.Context) error {
	value := ctx.Float64("value")
	if !ctx.IsSet("value") {
		s, err := c.loadFile(ctx)
		if err != nil {
			return err
		}
		value = s.Baseline.Overall
	}

	record, err := c.client.UpdateGPA(ctx.Context, value)
	if err != nil {
		return err
	}
	c.render.Success("Saved GPA: %s", report.FormatGPA(record.GPA))
	return nil
}

func (c *commands) gpaDelete(ctx *cli.Context) error {
	resp, err := c.client.DeleteGPA(ctx.Context)
	if err != nil {
		return err
	}
	c.render.Success("%s", resp.Message)
	return nil
}
