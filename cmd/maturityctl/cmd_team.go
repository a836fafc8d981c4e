package main

import (
	"github.com/spf13/cobra"

	"github.com/Checker-Finance/maturity-client/internal/services"
)

func teamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage team members and roles",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List team members",
		RunE: func(cmd *cobra.Command, _ []string) error {
			members, err := check(services.Wrap(current.team.Members(cmd.Context())))
			if err != nil {
				return err
			}
			for _, m := range members {
				current.printf("%-16s %-28s %-8s %s\n", m.ID, m.Email, m.Role, m.Status)
			}
			return nil
		},
	}

	var role string
	invite := &cobra.Command{
		Use:   "invite <email>",
		Short: "Invite someone to the team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := check(services.Wrap(current.team.Invite(cmd.Context(), args[0], role)))
			if err != nil {
				return err
			}
			current.printf("Invited %s as %s\n", m.Email, m.Role)
			return nil
		},
	}
	invite.Flags().StringVar(&role, "role", "viewer", "role to grant")

	remove := &cobra.Command{
		Use:   "remove <member-id>",
		Short: "Remove a team member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := check(services.Wrap(struct{}{}, current.team.Remove(cmd.Context(), args[0]))); err != nil {
				return err
			}
			current.printf("Removed %s\n", args[0])
			return nil
		},
	}

	roles := &cobra.Command{
		Use:   "roles",
		Short: "List roles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := check(services.Wrap(current.team.Roles(cmd.Context())))
			if err != nil {
				return err
			}
			for _, r := range list {
				current.printf("%-10s %s\n", r.ID, r.Name)
			}
			return nil
		},
	}

	assign := &cobra.Command{
		Use:   "assign <member-id> <role>",
		Short: "Change a member's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := check(services.Wrap(current.team.AssignRole(cmd.Context(), args[0], args[1])))
			if err != nil {
				return err
			}
			current.printf("%s is now %s\n", m.ID, m.Role)
			return nil
		},
	}

	cmd.AddCommand(list, invite, remove, roles, assign)
	return cmd
}
