// Package textio reads delivery lists in the plain whitespace-separated
// format and prints route plans as human-readable reports.
package textio

import (
	"bufio"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"io"
	"strconv"
	"strings"
)

// DeliveryList is a parsed text input: the requests and the van capacity.
type DeliveryList struct {
	Requests      []domain.Request
	CargoCapacity int
}

// ReadDeliveryList parses
//
//	n
//	dest_1 weight_1
//	...
//	dest_n weight_n
//	capacity
//
// Tokens may be separated by any whitespace. Request ids are assigned 1..n
// in input order.
func ReadDeliveryList(r io.Reader) (DeliveryList, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func(what string) (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, fmt.Errorf("read delivery list: %s: %w", what, err)
			}
			return 0, fmt.Errorf("read delivery list: %s: %w", what, io.ErrUnexpectedEOF)
		}
		n, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, fmt.Errorf("read delivery list: %s: %q is not an integer", what, sc.Text())
		}
		return n, nil
	}

	count, err := next("request count")
	if err != nil {
		return DeliveryList{}, err
	}
	if count < 0 {
		return DeliveryList{}, fmt.Errorf("read delivery list: negative request count %d", count)
	}

	list := DeliveryList{Requests: make([]domain.Request, 0, count)}
	for i := 1; i <= count; i++ {
		dest, err := next(fmt.Sprintf("request #%d destination", i))
		if err != nil {
			return DeliveryList{}, err
		}
		weight, err := next(fmt.Sprintf("request #%d weight", i))
		if err != nil {
			return DeliveryList{}, err
		}
		list.Requests = append(list.Requests, domain.Request{RequestID: i, Destination: dest, Weight: weight})
	}

	if list.CargoCapacity, err = next("capacity"); err != nil {
		return DeliveryList{}, err
	}
	if sc.Scan() {
		return DeliveryList{}, errors.New("read delivery list: unexpected trailing input " + strconv.Quote(sc.Text()))
	}

	return list, nil
}

// WriteReport prints the loaded and skipped requests, the depot, the path
// with refuel stops marked "(*)", the total distance and the refuel count.
func WriteReport(w io.Writer, plan *domain.RoutePlan) error {
	var b strings.Builder

	b.WriteString("Final List of Items:\n")
	for _, r := range plan.Deliveries {
		fmt.Fprintf(&b, "%d %d\n", r.Destination, r.Weight)
	}
	if len(plan.Skipped) > 0 {
		b.WriteString("Skipped Items:\n")
		for _, r := range plan.Skipped {
			fmt.Fprintf(&b, "%d %d\n", r.Destination, r.Weight)
		}
	}

	if plan.Empty() {
		b.WriteString("No items fit the van capacity.\n")
	} else {
		fmt.Fprintf(&b, "Starting from depot: %d\n", plan.Depot)
		b.WriteString("Path: ")
		b.WriteString(FormatStops(plan.Stops))
		b.WriteByte('\n')
		fmt.Fprintf(&b, "Total Distance Covered: %d units\n", plan.TotalDistance)
		fmt.Fprintf(&b, "Refills Required: %d\n", plan.RefuelCount)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// FormatStops renders stops as "a -> b -> s(*) -> c".
func FormatStops(stops []domain.Stop) string {
	parts := make([]string, len(stops))
	for i, s := range stops {
		parts[i] = strconv.Itoa(s.Node)
		if s.Refuel {
			parts[i] += "(*)"
		}
	}
	return strings.Join(parts, " -> ")
}
