package console

import (
	"fmt"
	"strings"

	"github.com/fyerfyer/gatebench/pkg/circuit"
	"github.com/fyerfyer/gatebench/pkg/registry"
)

func (c *Console) selected() (*registry.Entry, error) {
	return c.store.Selected()
}

func (c *Console) newGate() error {
	fmt.Fprint(c.out, "Input gate name: ")
	name, err := c.readLine()
	if err != nil {
		return err
	}

	var terms []circuit.Terminal
	more, err := c.readYes("Do you want to input terminals now?(0/1) > ")
	for err == nil && more {
		var term circuit.Terminal
		if term, err = c.readTerminal(); err != nil {
			return err
		}
		terms = append(terms, term)
		more, err = c.readYes("Do you want to continue?(0/1) > ")
	}
	if err != nil {
		return err
	}

	g, dropped := c.store.NewGate(terms)
	if dropped > 0 {
		fmt.Fprintf(c.out, "Warning: %d terminals dropped, capacity is %s\n", dropped, g.Policy())
	}
	if _, err := c.store.Put(name, g); err != nil {
		return err
	}
	fmt.Fprint(c.out, "Successfully created!")
	return nil
}

func (c *Console) removeGate() error {
	fmt.Fprint(c.out, "Input gate name: ")
	name, err := c.readLine()
	if err != nil {
		return err
	}
	if err := c.store.Remove(name); err != nil {
		return err
	}
	fmt.Fprint(c.out, "Successfully removed!")
	return nil
}

func (c *Console) listGates() error {
	names := c.store.Names()
	if len(names) == 0 {
		fmt.Fprintln(c.out, "No gates.")
		return nil
	}
	fmt.Fprintln(c.out, strings.Join(names, ", "))
	return nil
}

func (c *Console) selectGate() error {
	fmt.Fprint(c.out, "Input gate name: ")
	name, err := c.readLine()
	if err != nil {
		return err
	}
	if err := c.store.Select(name); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Gate '%s' selected!", name)
	return nil
}

func (c *Console) printGate() error {
	entry, err := c.selected()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s gate:\n", entry.Name)
	return entry.Gate.FormatWith(c.out, c.token)
}

func (c *Console) addTerminals() error {
	entry, err := c.selected()
	if err != nil {
		return err
	}

	for more := true; more; {
		term, err := c.readTerminal()
		if err != nil {
			return err
		}
		if err := entry.Gate.AddTerminal(term); err != nil {
			return err
		}
		c.logger.Gate("%s: added %s", entry.Name, term)

		if more, err = c.readYes("Do you want to continue?(0/1) > "); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) getState() error {
	entry, err := c.selected()
	if err != nil {
		return err
	}
	n, err := c.readIndex(entry.Gate)
	if err != nil {
		return err
	}
	// n was checked by readIndex
	fmt.Fprintf(c.out, "Terminal state: %s", entry.Gate.SignalUnchecked(n))
	return nil
}

func (c *Console) setState() error {
	entry, err := c.selected()
	if err != nil {
		return err
	}
	n, err := c.readIndex(entry.Gate)
	if err != nil {
		return err
	}

	fmt.Fprint(c.out, "Input terminal state (0,1 or X): ")
	signal, err := c.signals.ReadSignal()
	if err != nil {
		return err
	}
	stored, err := entry.Gate.SetSignal(n, signal)
	if err != nil {
		return err
	}
	c.logger.Gate("%s: terminal %d set to %s", entry.Name, n, stored)
	fmt.Fprintf(c.out, "Terminal state set to: %s", stored)
	return nil
}

func (c *Console) connect() error {
	entry, err := c.selected()
	if err != nil {
		return err
	}
	n, err := c.readIndex(entry.Gate)
	if err != nil {
		return err
	}
	count, err := entry.Gate.Connect(n)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Terminal connections: %d", count)
	return nil
}

func (c *Console) disconnect() error {
	entry, err := c.selected()
	if err != nil {
		return err
	}
	n, err := c.readIndex(entry.Gate)
	if err != nil {
		return err
	}
	count, err := entry.Gate.Disconnect(n)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Terminal connections: %d", count)
	return nil
}

func (c *Console) renewStates() error {
	entry, err := c.selected()
	if err != nil {
		return err
	}
	if err := entry.Gate.BulkRead(c.signals); err != nil {
		return err
	}
	c.logger.Gate("%s: states renewed", entry.Name)
	return nil
}
