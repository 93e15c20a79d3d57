package main

import (
	"fmt"

	authdomain "github.com/satrf/scorekeeper/app/modules/auth/domain"
	authjwt "github.com/satrf/scorekeeper/app/modules/auth/infrastructure/jwt"
	"github.com/urfave/cli/v2"
)

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue a bearer token signed with the configured JWT secret",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Required: true, Usage: "operator name or email"},
			&cli.StringFlag{Name: "role", Value: string(authdomain.RoleEditor), Usage: "viewer, editor or admin"},
			&cli.StringFlag{Name: "club"},
			&cli.DurationFlag{Name: "ttl", Usage: "lifetime; defaults to jwt.default_ttl"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := configFrom(c)
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return cli.Exit("jwt.secret (JWT_SECRET) is required", 2)
			}
			role := authdomain.Role(c.String("role"))
			if !role.IsValid() {
				return cli.Exit(fmt.Sprintf("invalid role %q", role), 2)
			}
			ttl := c.Duration("ttl")
			if ttl <= 0 {
				ttl = cfg.JWT.DefaultTTL
			}

			token, err := authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer).GenerateToken(&authdomain.Claims{
				Subject: c.String("subject"),
				Club:    c.String("club"),
				Role:    role,
			}, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
