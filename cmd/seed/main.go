// Command seed populates a running jobcard backend with demo data:
// one user per role, a handful of job cards, technician updates
// (including a critical issue), cashier parts and the resulting bills.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

type demoUser struct {
	Username string
	Email    string
	Password string
	Role     string
	token    string
}

var demoUsers = []*demoUser{
	{Username: "advisor1", Email: "advisor1@workshop.local", Password: "advisor-pass-1", Role: "service_advisor"},
	{Username: "tech1", Email: "tech1@workshop.local", Password: "tech-pass-123", Role: "technician"},
	{Username: "cashier1", Email: "cashier1@workshop.local", Password: "cashier-pass-1", Role: "cashier"},
	{Username: "manager1", Email: "manager1@workshop.local", Password: "manager-pass-1", Role: "manager"},
}

type jobCardSeed struct {
	CustomerName string `json:"customerName"`
	VehicleType  string `json:"vehicleType"`
	VehicleNo    string `json:"vehicleNo"`
}

var sampleCards = []jobCardSeed{
	{CustomerName: "Ravi Kumar", VehicleType: "2W", VehicleNo: "KA01AB1234"},
	{CustomerName: "Meena Iyer", VehicleType: "4W", VehicleNo: "KA05CD5678"},
	{CustomerName: "John Mathew", VehicleType: "4W", VehicleNo: "KL07EF9012"},
	{CustomerName: "Sunita Rao", VehicleType: "2W", VehicleNo: "MH12GH3456"},
	{CustomerName: "Arjun Nair", VehicleType: "4W", VehicleNo: "TN09IJ7890"},
}

type inventoryItem struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

func apiURL() string {
	url := os.Getenv("API_URL")
	if url == "" {
		url = "http://localhost:8080"
	}
	return url
}

func request(method, path, token string, payload interface{}, out interface{}) error {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, apiURL()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s failed with status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func registerOrLogin(u *demoUser) error {
	var result struct {
		Token string `json:"token"`
	}

	err := request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": u.Username,
		"email":    u.Email,
		"password": u.Password,
		"role":     u.Role,
	}, &result)
	if err != nil {
		// Already registered from a previous run, log in instead.
		err = request(http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": u.Username,
			"password": u.Password,
		}, &result)
		if err != nil {
			return fmt.Errorf("login for %s: %w", u.Username, err)
		}
	}

	u.token = result.Token
	log.WithFields(log.Fields{"username": u.Username, "role": u.Role}).Info("Demo user ready")
	return nil
}

func findUser(role string) *demoUser {
	for _, u := range demoUsers {
		if u.Role == role {
			return u
		}
	}
	return nil
}

func main() {
	for _, u := range demoUsers {
		if err := registerOrLogin(u); err != nil {
			log.Fatalf("Failed to prepare demo user: %v", err)
		}
	}

	advisor := findUser("service_advisor")
	tech := findUser("technician")
	cashier := findUser("cashier")
	manager := findUser("manager")

	var catalog []inventoryItem
	if err := request(http.MethodGet, "/api/inventory", cashier.token, nil, &catalog); err != nil {
		log.Fatalf("Failed to fetch inventory: %v", err)
	}
	log.WithField("items", len(catalog)).Info("Fetched inventory catalog")

	for i, seed := range sampleCards {
		var card struct {
			ID string `json:"id"`
		}
		if err := request(http.MethodPost, "/api/jobcards", advisor.token, seed, &card); err != nil {
			log.WithError(err).Error("Failed to create job card")
			continue
		}
		log.WithFields(log.Fields{
			"job_card_id": card.ID,
			"customer":    seed.CustomerName,
			"vehicle_no":  seed.VehicleNo,
		}).Info("Created job card")

		// Every card gets picked up; one in three surfaces a critical
		// issue that needs customer authorization.
		update := map[string]interface{}{
			"status": "in_progress",
			"note":   "Initial inspection done, work started",
		}
		if i%3 == 1 {
			update["note"] = "Found worn brake discs, customer approval needed"
			update["criticalIssue"] = true
		}
		if err := request(http.MethodPost, "/api/jobcards/"+card.ID+"/updates", tech.token, update, nil); err != nil {
			log.WithError(err).Error("Failed to post update")
		}

		for j := 0; j < 1+rand.Intn(3); j++ {
			item := catalog[rand.Intn(len(catalog))]
			part := map[string]interface{}{
				"inventoryCode": item.Code,
				"name":          item.Name,
				"quantity":      1 + rand.Intn(2),
				"unitPrice":     item.Price,
			}
			if err := request(http.MethodPost, "/api/jobcards/"+card.ID+"/parts", cashier.token, part, nil); err != nil {
				log.WithError(err).Error("Failed to attach part")
			}
		}

		// Manager clears any waiting authorization.
		if i%3 == 1 {
			status := map[string]string{"status": "in_progress"}
			if err := request(http.MethodPatch, "/api/jobcards/"+card.ID+"/status", manager.token, status, nil); err != nil {
				log.WithError(err).Error("Failed to authorize job card")
			}
		}

		var bill struct {
			PartsTotal   float64 `json:"partsTotal"`
			LabourCharge float64 `json:"labourCharge"`
			GST          float64 `json:"gst"`
			Total        float64 `json:"total"`
		}
		if err := request(http.MethodGet, "/api/jobcards/"+card.ID+"/bill", manager.token, nil, &bill); err != nil {
			log.WithError(err).Error("Failed to fetch bill")
			continue
		}
		log.WithFields(log.Fields{
			"job_card_id": card.ID,
			"parts_total": bill.PartsTotal,
			"labour":      bill.LabourCharge,
			"gst":         bill.GST,
			"total":       bill.Total,
		}).Info("Bill computed")
	}

	log.Info("Seeding complete")
}
